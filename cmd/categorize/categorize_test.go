package categorize_test

import (
	"testing"

	"vtran/txn-categorizer/cmd/categorize"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "Categorize transactions")
	assert.Contains(t, categorize.Cmd.Long, "abbreviation dictionary")
	assert.NotNil(t, categorize.Cmd.Run)
}

func TestCategorizeCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"categories", "c", ""},
		{"transactions", "t", ""},
		{"abbreviations", "a", ""},
		{"output", "o", ""},
		{"format", "f", ""},
		{"print", "", "true"},
		{"report", "r", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := categorize.Cmd.Flags().Lookup(tt.name)
			if assert.NotNil(t, flag) {
				assert.Equal(t, tt.shorthand, flag.Shorthand)
				assert.Equal(t, tt.defValue, flag.DefValue)
				assert.NotEmpty(t, flag.Usage)
			}
		})
	}
}

func TestCategorizeCommand_RequiredFlags(t *testing.T) {
	for _, name := range []string{"categories", "transactions"} {
		flag := categorize.Cmd.Flags().Lookup(name)
		if assert.NotNil(t, flag) {
			assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], name)
		}
	}
}

func TestCategorizeCommand_FlagTypes(t *testing.T) {
	var flags []*pflag.Flag
	categorize.Cmd.Flags().VisitAll(func(f *pflag.Flag) { flags = append(flags, f) })
	assert.Len(t, flags, 7)

	assert.Equal(t, "bool", categorize.Cmd.Flags().Lookup("print").Value.Type())
	assert.Equal(t, "string", categorize.Cmd.Flags().Lookup("format").Value.Type())
}
