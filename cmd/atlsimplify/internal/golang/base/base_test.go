package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_names(t *testing.T) {
	tests := []struct {
		usageLine    string
		wantLongName string
		wantName     string
	}{
		{"atlsimplify", "", ""},
		{"atlsimplify mcp [flags]", "mcp", "mcp"},
		{"atlsimplify simplify [flags] <file>...", "simplify", "simplify"},
		{"atlsimplify fields", "fields", "fields"},
		{"atlsimplify config new [flags]", "config new", "new"},
	}
	for _, tt := range tests {
		t.Run(tt.usageLine, func(t *testing.T) {
			c := &Command{UsageLine: tt.usageLine}
			assert.Equal(t, tt.wantLongName, c.LongName())
			assert.Equal(t, tt.wantName, c.Name())
		})
	}
}

func TestCommand_Lookup(t *testing.T) {
	mcp := &Command{UsageLine: "atlsimplify mcp [flags]"}
	fields := &Command{UsageLine: "atlsimplify fields"}
	root := &Command{UsageLine: "atlsimplify", Commands: []*Command{mcp, fields}}

	assert.Same(t, mcp, root.Lookup("mcp"))
	assert.Same(t, fields, root.Lookup("fields"))
	assert.Nil(t, root.Lookup("nope"))
}

func TestCommand_Runnable(t *testing.T) {
	assert.False(t, (&Command{}).Runnable())
}

func TestSetExitStatus(t *testing.T) {
	t.Cleanup(func() { exitStatus = SNoError })

	SetExitStatus(SInvalidParameters)
	SetExitStatus(SApplicationError)
	assert.Equal(t, SInvalidParameters, ExitStatus())
	assert.Equal(t, "InvalidParameters", ExitStatus().String())
}

func TestStatusCode_String(t *testing.T) {
	assert.Equal(t, "NoError", SNoError.String())
	assert.Equal(t, "UserError", SUserError.String())
	assert.Equal(t, "StatusCode(42)", StatusCode(42).String())
}
