package models

// Field names used in extraction results and validation reports.
const (
	FieldDate          = "date"
	FieldMerchant      = "merchant"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldCategory      = "category"
	FieldPaymentMethod = "payment_method"
)

// RequiredFields is the subset of fields a record must carry to be persisted.
var RequiredFields = []string{FieldDate, FieldMerchant, FieldAmount}

// ExtractedFields holds the structured fields recovered from one segment.
// All values are strings; an empty string means the field was not extracted.
type ExtractedFields struct {
	Date          string `json:"date"`
	Merchant      string `json:"merchant"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
}

// IsEmpty reports whether no field was extracted at all.
func (f ExtractedFields) IsEmpty() bool {
	return f.Date == "" && f.Merchant == "" && f.Amount == "" &&
		f.Currency == "" && f.Category == "" && f.PaymentMethod == ""
}

// Missing returns the names of required fields that are still empty.
func (f ExtractedFields) Missing() []string {
	var missing []string
	values := map[string]string{
		FieldDate:     f.Date,
		FieldMerchant: f.Merchant,
		FieldAmount:   f.Amount,
	}
	for _, name := range RequiredFields {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// FillFrom copies every field that is empty on f but set on other.
// This is the field-level merge used when combining extractor strategies.
func (f *ExtractedFields) FillFrom(other ExtractedFields) {
	if f.Date == "" {
		f.Date = other.Date
	}
	if f.Merchant == "" {
		f.Merchant = other.Merchant
	}
	if f.Amount == "" {
		f.Amount = other.Amount
	}
	if f.Currency == "" {
		f.Currency = other.Currency
	}
	if f.Category == "" {
		f.Category = other.Category
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = other.PaymentMethod
	}
}
