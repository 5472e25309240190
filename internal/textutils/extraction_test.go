package textutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("  abc  ", 10))
	assert.Equal(t, "abcde", Truncate("abcdefgh", 5))
	// Rune-aware: never slices through a multi-byte character.
	assert.Equal(t, "一二三", Truncate("一二三四五", 3))
	long := strings.Repeat("字", 900)
	assert.Equal(t, 800, len([]rune(Truncate(long, DefaultTruncateLimit))))
}

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "cjk spend verb", text: "昨天在星巴克花了35元", want: "星巴克"},
		{name: "cjk eat verb", text: "在老王面馆吃了18块", want: "老王面馆"},
		{name: "cjk followed by digit", text: "在全家12.5元", want: "全家"},
		{name: "english at", text: "spent 12.50 at Joe's Diner", want: "Joe's Diner"},
		{name: "english at with verb", text: "at Starbucks paid 4.50", want: "Starbucks"},
		{name: "no anchor", text: "花了35元", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMerchant(tt.text))
		})
	}
}

func TestBeforeAmount(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		amount string
		want   string
	}{
		{name: "merchant before amount", text: "星巴克 35元", amount: "35", want: "星巴克"},
		{name: "lead noise stripped", text: "昨天星巴克 35元", amount: "35", want: "星巴克"},
		{name: "verb only yields empty", text: "spent 12.50 yesterday", amount: "12.50", want: ""},
		{name: "amount missing", text: "星巴克", amount: "35", want: ""},
		{name: "empty amount", text: "星巴克 35", amount: "", want: ""},
		{name: "amount at start", text: "35元 星巴克", amount: "35", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BeforeAmount(tt.text, tt.amount))
		})
	}
}

func TestStripLeadNoise(t *testing.T) {
	assert.Equal(t, "星巴克", StripLeadNoise("昨天星巴克"))
	assert.Equal(t, "星巴克", StripLeadNoise("我昨天花了星巴克"))
	assert.Equal(t, "star", StripLeadNoise("just star"))
	assert.Equal(t, "星巴克", StripLeadNoise("星巴克"))
}
