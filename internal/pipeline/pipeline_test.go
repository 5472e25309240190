package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scanledger/internal/extractor"
	"scanledger/internal/ledger"
	"scanledger/internal/models"
	"scanledger/internal/parsererror"
	"scanledger/internal/pending"
	"scanledger/internal/recognizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
}

type scriptedClient struct {
	replies []string
	calls   int
}

func (c *scriptedClient) Complete(_ context.Context, _, _ string) (string, error) {
	reply := c.replies[len(c.replies)-1]
	if c.calls < len(c.replies) {
		reply = c.replies[c.calls]
	}
	c.calls++
	return reply, nil
}

func newTestPipeline(t *testing.T, client extractor.CompletionClient) (*Pipeline, *ledger.Store, *pending.MemoryCache) {
	t.Helper()
	store := ledger.NewStore(filepath.Join(t.TempDir(), "ledger.csv"), fixedClock)
	cache := pending.NewMemoryCache(0)

	strategies := []extractor.Strategy{extractor.NewRegexStrategy(fixedClock)}
	if client != nil {
		strategies = append([]extractor.Strategy{extractor.NewCompletionStrategy(client, 0, nil)}, strategies...)
	}
	ext := extractor.New(strategies...)

	counter := 0
	p := New(nil, nil, ext, cache, store, nil, Options{
		Dedupe: true,
		Clock:  fixedClock,
		NewID: func() string {
			counter++
			return fmt.Sprintf("pending-%d", counter)
		},
	})
	return p, store, cache
}

func TestProcessTextInput(t *testing.T) {
	p, store, _ := newTestPipeline(t, nil)

	resp, err := p.Process(context.Background(), Request{Text: "昨天在星巴克花了35元"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.StatusInserted, resp.Results[0].Status)
	assert.Equal(t, "2024-05-01", resp.Results[0].Row.Date)
	assert.Equal(t, "星巴克", resp.Results[0].Row.Merchant)
	assert.Equal(t, "35", resp.Results[0].Row.Amount)
	assert.Equal(t, "昨天在星巴克花了35元", resp.Results[0].Row.Note)

	records, err := store.Read()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestProcessNoInputFailsBeforeAnyWrite(t *testing.T) {
	p, store, _ := newTestPipeline(t, nil)

	_, err := p.Process(context.Background(), Request{})
	require.Error(t, err)
	var validationErr *parsererror.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessUploadWithPendingIDRejected(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil)

	_, err := p.Process(context.Background(), Request{
		PendingID:  "p1",
		Transcript: "some new audio transcript",
	})
	require.Error(t, err)
	var validationErr *parsererror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestProcessUnknownPendingID(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil)

	_, err := p.Process(context.Background(), Request{PendingID: "nope", Text: "clarify"})
	require.Error(t, err)
	var notFoundErr *parsererror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestProcessClarificationRoundTrip(t *testing.T) {
	p, store, cache := newTestPipeline(t, nil)

	// First pass: an amount and date but no merchant anchor, so the record
	// is incomplete and gets cached under a pending id.
	_, err := p.Process(context.Background(), Request{Text: "spent 12.50 yesterday"})
	require.Error(t, err)

	var missingErr *parsererror.MissingFieldsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "pending-1", missingErr.PendingID)
	require.Len(t, missingErr.Entries, 1)
	assert.Contains(t, missingErr.Entries[0].Missing, "merchant")

	// Resubmission with clarification text completes the record.
	resp, err := p.Process(context.Background(), Request{
		PendingID: "pending-1",
		Text:      "at Joe's Diner",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, "Joe's Diner", resp.Results[0].Row.Merchant)
	assert.Equal(t, "2024-05-01", resp.Results[0].Row.Date)

	records, err := store.Read()
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The pending entry is spent after a successful resubmission.
	_, err = cache.Merge("pending-1", "again")
	assert.Error(t, err)
}

func TestProcessBatchPartialSuccess(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`[{"date":"2024-05-01","merchant":"星巴克","amount":"35"},{"merchant":"","amount":""}]`,
	}}
	p, _, _ := newTestPipeline(t, client)

	transcript := "5月1日12:30\n星巴克 自动扣款成功 ¥35.00\n5月1日14:00\n???"
	resp, err := p.Process(context.Background(), Request{Transcript: transcript})

	// At least one record inserted means overall success even though other
	// segments were incomplete or duplicated.
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.Inserted, 1)
}

func TestProcessAllMissingReturnsMissingFieldsError(t *testing.T) {
	client := &scriptedClient{replies: []string{`[{"merchant":""}]`}}
	p, store, _ := newTestPipeline(t, client)

	_, err := p.Process(context.Background(), Request{Text: "???"})
	require.Error(t, err)
	var missingErr *parsererror.MissingFieldsError
	require.ErrorAs(t, err, &missingErr)
	assert.NotEmpty(t, missingErr.PendingID)

	records, readErr := store.Read()
	require.NoError(t, readErr)
	assert.Empty(t, records)
}

func TestProcessRecognitionTokens(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"date":"2024-05-01","merchant":"星巴克","amount":"35","currency":"CNY"}`,
	}}
	p, _, _ := newTestPipeline(t, client)

	recognition := &recognizer.Result{
		Tokens: []models.RecognitionToken{
			{Text: "2024年5月1日", Box: &models.BoundingBox{X0: 0, Y0: 0, X1: 100, Y1: 20}},
			{Text: "星巴克", Box: &models.BoundingBox{X0: 0, Y0: 50, X1: 60, Y1: 70}},
			{Text: "¥35.00", Box: &models.BoundingBox{X0: 200, Y0: 52, X1: 260, Y1: 72}},
		},
	}
	resp, err := p.Process(context.Background(), Request{
		Recognition: recognition,
		SourceImage: "/uploads/receipts/r1.png",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, "r1.png", resp.Results[0].Row.SourceImage)
	require.Len(t, resp.CombinedTexts, 1)
	assert.Contains(t, resp.CombinedTexts[0], "星巴克")
}

func TestProcessSingleTextExpansion(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`[{"date":"2024-05-01","merchant":"星巴克","amount":"35"},{"date":"2024-05-01","merchant":"地铁","amount":"4"}]`,
	}}
	p, _, _ := newTestPipeline(t, client)

	resp, err := p.Process(context.Background(), Request{Text: "昨天买了咖啡35块还坐了地铁4块"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Inserted)
	require.Len(t, resp.CombinedTexts, 2)
	assert.Equal(t, resp.CombinedTexts[0], resp.CombinedTexts[1])
}

func TestProcessDefaultsDateToToday(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"merchant":"星巴克","amount":"35"}`}}
	p, _, _ := newTestPipeline(t, client)

	resp, err := p.Process(context.Background(), Request{Text: "在星巴克花了35"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", resp.Results[0].Row.Date)
}

func TestProcessDuplicateSkipped(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil)

	req := Request{Text: "昨天在星巴克花了35元"}
	_, err := p.Process(context.Background(), req)
	require.NoError(t, err)

	resp, err := p.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Inserted)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.StatusSkipped, resp.Results[0].Status)
	assert.Equal(t, models.ReasonDuplicate, resp.Results[0].Reason)
}
