package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRecipients(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		suffix string
		want   []string
	}{
		{
			name: "vazios e sufixo padrão",
			raw:  "5511999,5511888@c.us, ,  ",
			want: []string{"5511999@c.us", "5511888@c.us"},
		},
		{
			name: "exemplo com repetido conta uma vez",
			raw:  "5511999,5511888@c.us, ,  ,5511999@c.us",
			want: []string{"5511999@c.us", "5511888@c.us"},
		},
		{
			name: "repetidos mantêm a primeira ocorrência",
			raw:  "5511999, 5511999@c.us,5511777",
			want: []string{"5511999@c.us", "5511777@c.us"},
		},
		{
			name: "grupo preservado",
			raw:  "120363000000000000@g.us",
			want: []string{"120363000000000000@g.us"},
		},
		{
			name:   "sufixo configurado",
			raw:    "5511999",
			suffix: "@s.whatsapp.net",
			want:   []string{"5511999@s.whatsapp.net"},
		},
		{
			name: "somente separadores",
			raw:  " , ,",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRecipients(tt.raw, tt.suffix))
		})
	}
}
