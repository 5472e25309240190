package models

import "path/filepath"

// LedgerRecord is one committed ledger row. The csv tags define the on-disk
// column order; new optional columns are only ever appended at the end,
// never removed or reordered.
type LedgerRecord struct {
	Date          string `csv:"date"`
	Merchant      string `csv:"merchant"`
	Amount        string `csv:"amount"`
	Currency      string `csv:"currency"`
	Category      string `csv:"category"`
	PaymentMethod string `csv:"payment_method"`
	Note          string `csv:"note"`
	SourceImage   string `csv:"source_image"`
	SourceAudio   string `csv:"source_audio"`
	InsertTime    string `csv:"insert_time"`
}

// NewLedgerRecord builds a record from extracted fields plus request context.
func NewLedgerRecord(fields ExtractedFields, note, sourceImage, sourceAudio string) LedgerRecord {
	return LedgerRecord{
		Date:          fields.Date,
		Merchant:      fields.Merchant,
		Amount:        fields.Amount,
		Currency:      fields.Currency,
		Category:      fields.Category,
		PaymentMethod: fields.PaymentMethod,
		Note:          note,
		SourceImage:   sourceImage,
		SourceAudio:   sourceAudio,
	}
}

// MissingRequired returns the required field names this record lacks.
func (r LedgerRecord) MissingRequired() []string {
	var missing []string
	if r.Date == "" {
		missing = append(missing, FieldDate)
	}
	if r.Merchant == "" {
		missing = append(missing, FieldMerchant)
	}
	if r.Amount == "" {
		missing = append(missing, FieldAmount)
	}
	return missing
}

// ReduceSourcePaths replaces the source references with their base filenames.
// Full upload paths never reach the ledger file.
func (r *LedgerRecord) ReduceSourcePaths() {
	if r.SourceImage != "" {
		r.SourceImage = filepath.Base(r.SourceImage)
	}
	if r.SourceAudio != "" {
		r.SourceAudio = filepath.Base(r.SourceAudio)
	}
}
