package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "plain", raw: "Budi Santoso", want: "Budi Santoso", wantOK: true},
		{name: "enumerated dot", raw: "3. budi santoso", want: "Budi Santoso", wantOK: true},
		{name: "enumerated dash", raw: "12-Siti Aminah", want: "Siti Aminah", wantOK: true},
		{name: "upper case", raw: "SITI AMINAH", want: "Siti Aminah", wantOK: true},
		{name: "dash suffix", raw: "Budi Santoso - HP", want: "Budi Santoso", wantOK: true},
		{name: "underscore suffix", raw: "Budi_TI", want: "Budi", wantOK: true},
		{name: "bare suffix on mixed case", raw: "Ryan Ahmadi IPH", want: "Ryan Ahmadi", wantOK: true},
		{name: "bare suffix kept on upper case", raw: "MUHAMMAD ALI", want: "Muhammad Ali", wantOK: true},
		{name: "extra spaces", raw: "  Dewi   Sartika  ", want: "Dewi Sartika", wantOK: true},
		{name: "host", raw: "Host", wantOK: false},
		{name: "co-host", raw: "Andi (Co-Host)", wantOK: false},
		{name: "facilitator", raw: "Fasilitator Kelas", wantOK: false},
		{name: "admin", raw: "admin prodi", wantOK: false},
		{name: "only enumerator", raw: "4. ", want: "", wantOK: true},
		{name: "empty", raw: "", want: "", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Name(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLines(t *testing.T) {
	text := "1. Budi Santoso\r\nHost\n\n2. Siti\nBudi Santoso\n"
	assert.Equal(t, []string{"Budi Santoso", "Siti", "Budi Santoso"}, Lines(text))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "jose ramirez", Key("  José   RAMÍREZ "))
	assert.Equal(t, "abc", Key("ＡＢＣ"))
	assert.Equal(t, "", Key("   "))
}
