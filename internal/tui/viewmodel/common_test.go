package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppView_IsReady(t *testing.T) {
	tests := []struct {
		name string
		view AppView
		want bool
	}{
		{name: "ready", view: AppView{State: StateReady}, want: true},
		{name: "loading", view: AppView{State: StateLoading}, want: false},
		{name: "error", view: AppView{State: StateError, Error: "boom"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.IsReady())
		})
	}
}

func TestAppView_HasError(t *testing.T) {
	assert.True(t, AppView{Error: "Erro ao carregar dados."}.HasError())
	assert.False(t, AppView{}.HasError())
}

func TestTab_Cycle(t *testing.T) {
	assert.Equal(t, TabHistory, TabDashboard.Next())
	assert.Equal(t, TabDashboard, TabDraft.Next())
	assert.Equal(t, TabDraft, TabDashboard.Prev())
	assert.Equal(t, "Nova oferta", TabDraft.Title())
}

func TestSaveState_Label(t *testing.T) {
	tests := []struct {
		want  string
		state SaveState
	}{
		{state: SaveIdle, want: ""},
		{state: SavePending, want: "salvando…"},
		{state: SaveDone, want: "rascunho salvo"},
		{state: SaveFailed, want: "falha ao salvar rascunho"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.Label())
	}
}
