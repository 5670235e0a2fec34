package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := New()
	tests := []struct {
		text string
		want Kind
	}{
		{"What is the semester fee?", Tuition},
		{"How much is TUITION per credit?", Tuition},
		{"Total cost for CSE", Tuition},
		{"Can I split the payment?", Tuition},
		{"Any fees waiver?", Tuition},
		{"How do I apply?", General},
		{"Tell me about campus life", General},
		{"", General},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassifyCustomKeywords(t *testing.T) {
	c := New(" Scholarship ", "")
	assert.Equal(t, Tuition, c.Classify("scholarship rules"))
	assert.Equal(t, General, c.Classify("semester fee"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tuition", Tuition.String())
	assert.Equal(t, "general", General.String())
}
