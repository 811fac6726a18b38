package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/offer-desk/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the CLI at a fake backend and a throwaway sqlite cache.
func setup(t *testing.T) *testutil.Backend {
	t.Helper()

	backend := testutil.NewBackendBuilder(t).WithFixtureOffers().Start()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("OFFERS_API_BASE_URL", backend.URL())
	t.Setenv("OFFERS_CACHE_BACKEND", "sqlite")
	t.Setenv("OFFERS_DATABASE_PATH", filepath.Join(dir, "offers.db"))
	t.Setenv("OFFERS_LOGGING_LEVEL", "error")
	return backend
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func login(t *testing.T) {
	t.Helper()
	out, err := execute(t, "pw\n", "login", "-u", "admin")
	require.NoError(t, err, out)
	require.Contains(t, out, "Conectado como admin")
}

func TestLogin_SessionIsRemembered(t *testing.T) {
	setup(t)

	out := mustExecute(t, "whoami")
	assert.Contains(t, out, "Não conectado")

	login(t)

	out = mustExecute(t, "whoami")
	assert.Contains(t, out, "admin em http://127.0.0.1")

	mustExecute(t, "logout")
	out = mustExecute(t, "whoami")
	assert.Contains(t, out, "Não conectado")
}

func TestLogin_WrongPassword(t *testing.T) {
	setup(t)

	_, err := execute(t, "admin\nnope\n", "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Usuário ou senha inválidos.")
}

func TestCommands_RequireLogin(t *testing.T) {
	setup(t)

	_, err := execute(t, "", "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Erro ao carregar dados.")
}

func TestDraft_EditAcrossRunsAndSubmit(t *testing.T) {
	b := setup(t)
	login(t)

	mustExecute(t, "draft", "set", "origin", "gru")
	mustExecute(t, "draft", "set", "destination", "mia")
	mustExecute(t, "draft", "set", "airline", "Latam")

	out := mustExecute(t, "draft", "dates", "add", "10/05/2026", "2")
	assert.Contains(t, out, "MAI: 10(2)")

	out = mustExecute(t, "draft", "prices", "add", "120000", "Smiles", "55,30", "USD")
	assert.Contains(t, out, "120.000 Smiles + USD 55.30")

	out = mustExecute(t, "draft", "show")
	assert.Contains(t, out, "GRU")
	assert.Contains(t, out, "MIA")
	assert.Contains(t, out, "Latam")
	assert.Contains(t, out, "azul.png")
	assert.Contains(t, out, "MAI: 10(2)")

	out = mustExecute(t, "draft", "submit")
	assert.Contains(t, out, "Oferta salva com sucesso!")

	created := b.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "GRU", created[0].Origin)
	assert.Equal(t, "MIA", created[0].Destination)
	assert.Equal(t, "Latam", created[0].Operator)
	assert.Equal(t, "azul.png", created[0].SelectedBG)
	require.Len(t, created[0].Dates1Raw.List, 1)
	assert.Equal(t, 2, created[0].Dates1Raw.List[0].Seats)

	assert.Contains(t, mustExecute(t, "history", "list"), "Ofertas (3 de 3)")

	out = mustExecute(t, "draft", "show")
	assert.NotContains(t, out, "GRU")
}

func TestDraft_SubmitInvalidKeepsDraft(t *testing.T) {
	b := setup(t)
	login(t)

	mustExecute(t, "draft", "set", "origin", "gru")

	_, err := execute(t, "", "draft", "submit")
	require.Error(t, err)

	assert.Empty(t, b.Created())

	out := mustExecute(t, "draft", "show")
	assert.Contains(t, out, "GRU")
}

func TestDraft_Dates(t *testing.T) {
	setup(t)
	login(t)

	out := mustExecute(t, "draft", "dates", "pick", "2026-05", "3", "10")
	assert.Contains(t, out, "MAI: 3(1), 10(1)")

	importFile := filepath.Join(t.TempDir(), "datas.txt")
	require.NoError(t, os.WriteFile(importFile, []byte("15/06/2026\t4\nlixo\n"), 0o600))
	out = mustExecute(t, "draft", "dates", "import", importFile, "--option", "2")
	assert.Contains(t, out, "1 data(s) importada(s).")
	assert.Contains(t, out, "JUN: 15(4)")

	out = mustExecute(t, "draft", "dates", "seats", "2026-05-10", "3")
	assert.Contains(t, out, "10(3)")

	out = mustExecute(t, "draft", "dates", "pick", "2026-05", "10")
	assert.Contains(t, out, "MAI: 10(3)")
	assert.NotContains(t, out, " 3(")

	out = mustExecute(t, "draft", "dates", "remove", "10/05/2026")
	assert.Contains(t, out, "Opção 1: -")

	_, err := execute(t, "", "draft", "dates", "import", "-", "-p", "2")
	require.Error(t, err)

	_, err = execute(t, "", "draft", "dates", "clear", "--option", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Opção inválida: 3")

	out = mustExecute(t, "draft", "dates", "pick", "2026-07", "4", "--seats", "2")
	assert.Contains(t, out, "JUL: 4(2)")

	out, err = execute(t, "01/08/2026\n", "draft", "dates", "import", "-", "--seats", "5", "-p", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "AGO: 1(5)")

	_, err = execute(t, "", "draft", "dates", "pick", "2026-07", "4", "--seats", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assentos inválidos")
}

func TestDraft_Prices(t *testing.T) {
	setup(t)
	login(t)

	out := mustExecute(t, "draft", "prices", "list")
	require.Contains(t, out, "Preços (opção 1)")

	_, err := execute(t, "", "draft", "prices", "add", "80000", "Latam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Programa desconhecido: Latam")

	mustExecute(t, "config", "programs", "add", "Smiles Diamante")
	out = mustExecute(t, "draft", "prices", "list")
	require.Regexp(t, `(?m)^1\s`, out, "an empty group lists its blank row under a fixed id")
	out = mustExecute(t, "draft", "prices", "set", "1", "90000", "Smiles", "Diamante", "10", "USD")
	assert.Contains(t, out, "90.000 Smiles Diamante + USD 10")
	out = mustExecute(t, "draft", "prices", "list")
	assert.Contains(t, out, "90.000 Smiles Diamante + USD 10")
	assert.Equal(t, 1, strings.Count(out, "Smiles Diamante"), "the edited row is not duplicated")

	_, err = execute(t, "", "draft", "prices", "update", "x", "color", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Coluna desconhecida")

	_, err = execute(t, "", "draft", "prices", "remove", "no-such-row")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Linha de preço não encontrada")
}

func TestDraft_Discard(t *testing.T) {
	setup(t)
	login(t)

	mustExecute(t, "draft", "set", "origin", "gru")

	out, err := execute(t, "n\n", "draft", "discard")
	require.NoError(t, err)
	assert.Contains(t, out, "Operação cancelada.")
	assert.Contains(t, mustExecute(t, "draft", "show"), "GRU")

	out = mustExecute(t, "draft", "discard", "-f")
	assert.Contains(t, out, "Rascunho descartado.")
	assert.NotContains(t, mustExecute(t, "draft", "show"), "GRU")
}

func TestDraft_DiscardWithoutBackend(t *testing.T) {
	setup(t)
	login(t)

	mustExecute(t, "draft", "set", "origin", "gru")
	mustExecute(t, "logout")

	_, err := execute(t, "", "draft", "show")
	require.Error(t, err, "showing the draft needs the backend configuration")

	out := mustExecute(t, "draft", "discard", "-f")
	assert.Contains(t, out, "Rascunho descartado.")

	login(t)
	assert.NotContains(t, mustExecute(t, "draft", "show"), "GRU")
}

func TestHistory_ListAndSearch(t *testing.T) {
	setup(t)
	login(t)

	out := mustExecute(t, "history", "list")
	assert.Contains(t, out, "Ofertas (2 de 2)")
	assert.Contains(t, out, "GRU → MIA")
	assert.Contains(t, out, "120.000 Smiles + USD 55.3")
	assert.Less(t, strings.Index(out, "GIG → LIS"), strings.Index(out, "GRU → MIA"), "newest first")

	out = mustExecute(t, "history", "list", "--search", "tap")
	assert.Contains(t, out, "Ofertas (1 de 2)")
	assert.NotContains(t, out, "GRU → MIA")

	out = mustExecute(t, "history", "list", "-s", "zzz")
	assert.Contains(t, out, `Nenhuma oferta encontrada para "zzz".`)
}

func TestHistory_Delete(t *testing.T) {
	b := setup(t)
	login(t)

	out, err := execute(t, "n\n", "history", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Operação cancelada.")

	out, err = execute(t, "s\n", "history", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Oferta #7 excluída.")

	_, err = execute(t, "", "history", "delete", "99", "-f")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Oferta #99 não encontrada.")

	assert.Equal(t, []int64{7}, b.Deleted())
	assert.Contains(t, mustExecute(t, "history", "list"), "Ofertas (1 de 1)")
}

func TestHistory_ImageAndExport(t *testing.T) {
	setup(t)
	login(t)
	dir := t.TempDir()

	out := mustExecute(t, "history", "image", "7", "--url")
	assert.Contains(t, out, "/api/generate/7?v=")

	imagePath := filepath.Join(dir, "oferta.png")
	out = mustExecute(t, "history", "image", "7", "-o", imagePath)
	assert.Contains(t, out, "Imagem salva em "+imagePath)
	data, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))

	csvPath := filepath.Join(dir, "ofertas.csv")
	mustExecute(t, "history", "export", "-o", csvPath, "--search", "gru")
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "GRU")
}

func TestDashboard(t *testing.T) {
	setup(t)
	login(t)

	out := mustExecute(t, "dashboard")
	assert.Contains(t, out, "GRU → MIA")
	assert.Contains(t, out, "Latam")
}

func TestConfig_ShowAndEdit(t *testing.T) {
	setup(t)
	login(t)

	out := mustExecute(t, "config", "show")
	assert.Contains(t, out, "azul.png")
	assert.Contains(t, out, "Smiles")
	assert.Contains(t, out, "USD")

	out = mustExecute(t, "config", "programs", "add", "Livelo")
	assert.Contains(t, out, "Programa Livelo adicionado(a).")
	out = mustExecute(t, "config", "currencies", "add", "eur")
	assert.Contains(t, out, "adicionado(a).")
	mustExecute(t, "config", "currencies", "delete", "2")

	out = mustExecute(t, "config", "show")
	assert.Contains(t, out, "Livelo")
	assert.Contains(t, out, "EUR")
	assert.NotContains(t, out, "BRL")

	_, err := execute(t, "", "config", "programs", "delete", "abc")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	setup(t)
	out := mustExecute(t, "version")
	assert.Equal(t, "offers dev\n", out)
}
