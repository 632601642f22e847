package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/cmd/vellum/commands"
	"go.trai.ch/vellum/internal/app"
	"go.trai.ch/vellum/internal/core/domain"
)

type fakeApp struct {
	compileOpts app.CompileOptions
	compileOut  []byte
	fetchDir    string
	fetchRef    string
}

func (f *fakeApp) Compile(_ context.Context, opts app.CompileOptions) ([]byte, error) {
	f.compileOpts = opts
	return f.compileOut, nil
}

func (f *fakeApp) Fetch(_ context.Context, dir, ref string) error {
	f.fetchDir = dir
	f.fetchRef = ref
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCompileCommand_ForwardsInputs(t *testing.T) {
	fake := &fakeApp{compileOut: []byte("result")}

	out, err := execute(t, fake, "compile", "report.vel",
		"--input", "title=Q3",
		"--input", "author=Finance",
	)
	require.NoError(t, err)

	assert.Equal(t, "result", out)
	assert.Equal(t, "report.vel", fake.compileOpts.Main)
	assert.Equal(t, map[string]string{"title": "Q3", "author": "Finance"}, fake.compileOpts.Inputs)
}

func TestCompileCommand_RejectsMalformedInput(t *testing.T) {
	_, err := execute(t, &fakeApp{}, "compile", "--input", "no-equals-sign")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetchCommand_ForwardsReference(t *testing.T) {
	fake := &fakeApp{}

	_, err := execute(t, fake, "fetch", "preview/charts@0.2.1")
	require.NoError(t, err)

	assert.Equal(t, "preview/charts@0.2.1", fake.fetchRef)
}

func TestFetchCommand_RequiresArgument(t *testing.T) {
	_, err := execute(t, &fakeApp{}, "fetch")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, &fakeApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vellum version")
}
