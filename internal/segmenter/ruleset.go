package segmenter

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Ruleset holds the keyword tables driving segmentation and candidate
// filtering. The defaults target Chinese payment-app screenshots; a YAML
// file can override them for other layouts.
type Ruleset struct {
	// NoiseLines are exact line matches removed before segmentation.
	NoiseLines []string `yaml:"noise_lines"`
	// HeaderKeywords mark app chrome; segments containing them are rejected.
	HeaderKeywords []string `yaml:"header_keywords"`
	// StatusKeywords are transaction status signals a candidate must carry.
	StatusKeywords []string `yaml:"status_keywords"`
	// DetailMarkers end a transaction block (substring match).
	DetailMarkers []string `yaml:"detail_markers"`
	// PaymentHints identify payment-method context lines.
	PaymentHints []string `yaml:"payment_hints"`
}

// DefaultRuleset returns the built-in keyword tables.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		NoiseLines: []string{"我的账单", "支付服务", "摇优惠", "日报设置"},
		HeaderKeywords: []string{
			"交易记录",
			"筛选",
			"云闪付APP",
			"全部",
			"网购",
			"线下消费",
			"转账",
			"信用卡还款",
			"支出",
			"收入",
			"收支分析",
			"设置支出预算",
		},
		StatusKeywords: []string{"自动扣款成功", "交通出行"},
		DetailMarkers:  []string{"账单详情"},
		PaymentHints:   []string{"微信", "支付宝", "云闪付"},
	}
}

// LoadRuleset reads keyword tables from a YAML file. An empty path returns
// the defaults. Fields omitted from the file keep their default values.
func LoadRuleset(path string) (*Ruleset, error) {
	rules := DefaultRuleset()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var loaded Ruleset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, err
	}

	if len(loaded.NoiseLines) > 0 {
		rules.NoiseLines = loaded.NoiseLines
	}
	if len(loaded.HeaderKeywords) > 0 {
		rules.HeaderKeywords = loaded.HeaderKeywords
	}
	if len(loaded.StatusKeywords) > 0 {
		rules.StatusKeywords = loaded.StatusKeywords
	}
	if len(loaded.DetailMarkers) > 0 {
		rules.DetailMarkers = loaded.DetailMarkers
	}
	if len(loaded.PaymentHints) > 0 {
		rules.PaymentHints = loaded.PaymentHints
	}

	return rules, nil
}

func (r *Ruleset) isNoise(line string) bool {
	for _, noise := range r.NoiseLines {
		if line == noise {
			return true
		}
	}
	return false
}

func (r *Ruleset) isDetailMarker(line string) bool {
	return containsAny(line, r.DetailMarkers)
}

// HasPaymentHint reports whether text mentions a known payment method.
func (r *Ruleset) HasPaymentHint(text string) bool {
	return containsAny(text, r.PaymentHints)
}
