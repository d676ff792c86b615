package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		original string
		suffix   string
	}{
		{"My CV.pdf", "-My_CV.pdf"},
		{"../../etc/passwd", "-passwd"},
		{`C:\Users\asha\resume.docx`, "-resume.docx"},
		{"...", "-file"},
		{"", "-file"},
		{"résumé 2025.pdf", "-r_sum_2025.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			key, filename := ObjectKey(owner, tt.original)
			assert.True(t, strings.HasSuffix(filename, tt.suffix), filename)
			assert.Equal(t, "uploads/"+owner.String()+"/"+filename, key)
			assert.NotContains(t, key, "..")
		})
	}

	first, _ := ObjectKey(owner, "a.pdf")
	second, _ := ObjectKey(owner, "a.pdf")
	assert.NotEqual(t, first, second)
}
