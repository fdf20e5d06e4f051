package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/viewport"
)

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for configuration",
	Long:   "Generate JSON schema for the looplist configuration file",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bts, err := json.MarshalIndent(configSchema(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func configSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		// Both the file and its list section are called Config.
		Namer: func(t reflect.Type) string {
			if t == reflect.TypeFor[viewport.Config]() {
				return "ListConfig"
			}
			return t.Name()
		},
	}
	schema := r.Reflect(&config.Config{})
	schema.Version = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "Looplist Configuration"
	schema.Description = "Configuration schema for looplist lists and templates"
	addDirectionEnum(schema)
	return schema
}

// addDirectionEnum lists the arrangement directions on the list settings.
func addDirectionEnum(schema *jsonschema.Schema) {
	def, ok := schema.Definitions["ListConfig"]
	if !ok {
		return
	}
	if prop, ok := def.Properties.Get("direction"); ok {
		prop.Enum = []any{
			string(viewport.TopToBottom),
			string(viewport.BottomToTop),
			string(viewport.LeftToRight),
			string(viewport.RightToLeft),
		}
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
