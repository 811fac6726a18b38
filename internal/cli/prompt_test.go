package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{name: "answer", input: "admin\n", want: "admin"},
		{name: "default on empty", input: "\n", def: "http://localhost:5000", want: "http://localhost:5000"},
		{name: "trimmed", input: "  GRU  \n", want: "GRU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Ask(context.Background(), "Usuário", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Usuário")
		})
	}
}

func TestPrompter_SecretFallsBackToLine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("pw\n"), &out)

	got, err := p.Secret(context.Background(), "Senha")
	require.NoError(t, err)
	assert.Equal(t, "pw", got)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"s\n", true},
		{"Sim\n", true},
		{"y\n", true},
		{"n\n", false},
		{"\n", false},
		{"talvez\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), "Excluir?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader("s\n"), &bytes.Buffer{})
	_, err := p.Confirm(ctx, "Excluir?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}
