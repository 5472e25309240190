package segmenter

import (
	"os"
	"path/filepath"
	"testing"

	"scanledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmpty(t *testing.T) {
	s := New(nil)
	assert.Nil(t, s.Split(nil))
	assert.Nil(t, s.Split([]string{"", "  "}))
}

func TestSplitDropsNoiseLines(t *testing.T) {
	s := New(nil)
	segments := s.Split([]string{"我的账单", "星巴克", "支付服务"})
	require.Len(t, segments, 1)
	assert.Equal(t, models.Segment{"星巴克"}, segments[0])
}

func TestSplitByListTimeAnchors(t *testing.T) {
	s := New(nil)
	lines := []string{
		"5月1日12:30",
		"星巴克",
		"-35.00",
		"5月2日09:15",
		"地铁",
		"-4.00",
	}
	segments := s.Split(lines)
	require.Len(t, segments, 2)
	assert.Equal(t, models.Segment{"5月1日12:30", "星巴克", "-35.00"}, segments[0])
	assert.Equal(t, models.Segment{"5月2日09:15", "地铁", "-4.00"}, segments[1])
}

func TestSplitTimeAmountWindow(t *testing.T) {
	s := New(nil)
	lines := []string{
		"微信支付",
		"12:30",
		"星巴克",
		"¥35.00",
		"账单详情",
		"14:05",
		"便利店",
		"¥12.00",
	}
	segments := s.Split(lines)
	require.Len(t, segments, 2)
	// Lead-in context is included, detail markers are excluded.
	assert.Contains(t, segments[0], "微信支付")
	assert.Contains(t, segments[0], "¥35.00")
	assert.NotContains(t, segments[0], "账单详情")
	assert.Contains(t, segments[1], "便利店")
}

func TestSplitNoAnchorsSingleSegment(t *testing.T) {
	s := New(nil)
	lines := []string{"星巴克", "美式咖啡"}
	segments := s.Split(lines)
	require.Len(t, segments, 1)
	assert.Equal(t, models.Segment(lines), segments[0])
}

func TestSplitDistantTimeAmountPairs(t *testing.T) {
	s := New(nil)
	lines := []string{
		"12:30",
		"星巴克",
		"¥35.00",
		"会员码",
		"出示付款码",
		"门店自提",
		"扫码点单",
		"附近门店",
		"14:05",
		"便利店",
		"¥12.00",
	}
	segments := s.Split(lines)
	require.Len(t, segments, 2)
	assert.Contains(t, segments[0], "星巴克")
	assert.Contains(t, segments[0], "¥35.00")
	assert.NotContains(t, segments[0], "便利店")
	assert.Contains(t, segments[1], "便利店")
	assert.Contains(t, segments[1], "¥12.00")
	assert.NotContains(t, segments[1], "星巴克")
}

func TestSplitFallbackKeepsEveryLine(t *testing.T) {
	s := New(nil)
	lines := []string{
		"交易成功",
		"星巴克咖啡",
		"美式大杯",
		"我的账单",
		"商户单号无",
		"支付方式零钱",
	}
	segments := s.Split(lines)
	require.Len(t, segments, 1)
	joined := segments[0].Text()
	for _, line := range lines {
		if line == "我的账单" {
			// Noise lines are the only input dropped.
			assert.NotContains(t, joined, line)
			continue
		}
		assert.Contains(t, joined, line)
	}
}

func TestSplitRowsDetailMarkers(t *testing.T) {
	s := New(nil)
	rows := []models.TextRow{
		{Text: "5月1日12:30"},
		{Text: "星巴克"},
		{Text: "-35.00"},
		{Text: "账单详情"},
		{Text: "5月2日09:15"},
		{Text: "地铁"},
		{Text: "-4.00"},
	}
	segments := s.SplitRows(rows)
	require.Len(t, segments, 2)
	assert.NotContains(t, segments[0], "账单详情")
	assert.Contains(t, segments[1], "地铁")
}

func TestSplitRowsCarriesDateLine(t *testing.T) {
	s := New(nil)
	rows := []models.TextRow{
		{Text: "5月1日12:30"},
		{Text: "星巴克咖啡"},
		{Text: "-35.00"},
		{Text: "全家便利店"},
		{Text: "-12.00"},
	}
	segments := s.SplitRows(rows)
	require.Len(t, segments, 2)
	// The second transaction keeps the date anchor for context.
	assert.Equal(t, "5月1日12:30", segments[1][0])
	assert.Contains(t, segments[1], "全家便利店")
}

func TestSplitRowsBankLinesStayInSegment(t *testing.T) {
	s := New(nil)
	rows := []models.TextRow{
		{Text: "5月1日12:30"},
		{Text: "星巴克咖啡"},
		{Text: "-35.00"},
		{Text: "招商银行·储蓄卡"},
	}
	segments := s.SplitRows(rows)
	require.Len(t, segments, 1)
	assert.Contains(t, segments[0], "招商银行·储蓄卡")
}

func TestSplitRowsMergesTimeOnlySegments(t *testing.T) {
	s := New(nil)
	rows := []models.TextRow{
		{Text: "5月1日12:30"},
		{Text: "星巴克咖啡"},
		{Text: "-35.00"},
		{Text: "账单详情"},
		{Text: "昨天14:05"},
	}
	segments := s.SplitRows(rows)
	require.Len(t, segments, 1)
	assert.Contains(t, segments[0], "昨天14:05")
}

func TestIsCandidate(t *testing.T) {
	s := New(nil)
	tests := []struct {
		name    string
		segment models.Segment
		want    bool
	}{
		{
			name:    "amount and status",
			segment: models.Segment{"星巴克", "-35.00", "自动扣款成功"},
			want:    true,
		},
		{
			name:    "header chrome rejected",
			segment: models.Segment{"交易记录", "-35.00", "自动扣款成功"},
			want:    false,
		},
		{
			name:    "no amount rejected",
			segment: models.Segment{"星巴克", "自动扣款成功"},
			want:    false,
		},
		{
			name:    "no status rejected",
			segment: models.Segment{"星巴克", "-35.00"},
			want:    false,
		},
		{
			name:    "empty rejected",
			segment: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsCandidate(tt.segment))
		})
	}
}

func TestFilter(t *testing.T) {
	s := New(nil)
	segments := []models.Segment{
		{"星巴克", "-35.00", "自动扣款成功"},
		{"收支分析", "-4.00", "交通出行"},
	}
	kept := s.Filter(segments)
	require.Len(t, kept, 1)
	assert.Equal(t, segments[0], kept[0])
}

func TestLoadRulesetDefaults(t *testing.T) {
	rules, err := LoadRuleset("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRuleset(), rules)
}

func TestLoadRulesetOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "noise_lines:\n  - Banner\nstatus_keywords:\n  - Paid\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRuleset(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banner"}, rules.NoiseLines)
	assert.Equal(t, []string{"Paid"}, rules.StatusKeywords)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, DefaultRuleset().HeaderKeywords, rules.HeaderKeywords)
}

func TestLoadRulesetMissingFile(t *testing.T) {
	_, err := LoadRuleset("/nonexistent/rules.yaml")
	assert.Error(t, err)
}
