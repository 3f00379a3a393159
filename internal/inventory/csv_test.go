package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "A1,Nike Dunk,DD1391", []string{"A1", "Nike Dunk", "DD1391"}},
		{"trims fields", "  A1 , Nike Dunk ,DD1391  ", []string{"A1", "Nike Dunk", "DD1391"}},
		{"quoted comma", `A1,"₱2,250.00",AVAILABLE`, []string{"A1", "₱2,250.00", "AVAILABLE"}},
		{"empty cells", "A1,,,", []string{"A1", "", "", ""}},
		{"blank line", "   ", nil},
		{"empty line", "", nil},
		{"escaped quotes toggle away", `A1,"say ""hi""",x`, []string{"A1", "say hi", "x"}},
		{"unterminated quote swallows rest", `A1,"open,still open`, []string{"A1", "open,still open"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSVLine(tt.line))
		})
	}
}

func TestParseCSV(t *testing.T) {
	text := "ITEM CODE,DETAILS\r\nA1,Nike\r\n\r\n  \nA2,\"Adidas, Samba\"\n"

	got := ParseCSV(text)

	assert.Equal(t, [][]string{
		{"ITEM CODE", "DETAILS"},
		{"A1", "Nike"},
		{"A2", "Adidas, Samba"},
	}, got)
}

func TestParseCSV_Empty(t *testing.T) {
	assert.Empty(t, ParseCSV(""))
	assert.Empty(t, ParseCSV("\n\n\r\n"))
}
