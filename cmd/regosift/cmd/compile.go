package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/solatis/regosift/internal/esquery"
	"github.com/solatis/regosift/internal/rego"
	"github.com/solatis/regosift/internal/types"
	"github.com/spf13/cobra"
)

var (
	compilePolicyFile  string
	compileBindings    []string
	compileExtractOnly bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a policy file into a boolean filter query",
	Long: `Compile extracts index conditions from the given Rego-style policy file
(or stdin when no file is given) and prints the extracted condition groups
and the compiled Elasticsearch boolean query as JSON.`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&compilePolicyFile, "policy", "", "policy file path (reads stdin when omitted)")
	compileCmd.Flags().StringArrayVar(&compileBindings, "set", nil, "input binding as name=value (repeatable)")
	compileCmd.Flags().BoolVar(&compileExtractOnly, "extract-only", false, "print extracted condition groups without compiling")
}

func runCompile(cmd *cobra.Command, args []string) error {
	policy, err := readPolicy(compilePolicyFile)
	if err != nil {
		return err
	}
	if len(policy) > types.MaxPolicySize {
		return fmt.Errorf("%w: %d bytes (max %d)", types.ErrPolicyTooLarge, len(policy), types.MaxPolicySize)
	}

	bindings, err := parseBindings(compileBindings)
	if err != nil {
		return err
	}

	groups := rego.NewExtractor().Extract(string(policy))

	output := map[string]any{"conditionGroups": groups}
	if !compileExtractOnly {
		query, err := esquery.NewCompiler().Compile(groups, bindings)
		if err != nil {
			return err
		}
		output["query"] = query
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// readPolicy reads the policy text from the given file or stdin.
func readPolicy(path string) ([]byte, error) {
	if path != "" && path != "-" {
		policy, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		return policy, nil
	}
	policy, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy from stdin: %w", err)
	}
	return policy, nil
}

// parseBindings converts repeated name=value flags into a bindings map.
func parseBindings(pairs []string) (types.Bindings, error) {
	bindings := make(types.Bindings, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid binding %q (expected name=value)", pair)
		}
		if len(value) > types.MaxBindingValueLength {
			return nil, fmt.Errorf("%w: %q", types.ErrBindingValueTooLong, name)
		}
		bindings[name] = value
	}
	if len(bindings) > types.MaxBindings {
		return nil, fmt.Errorf("%w: %d (max %d)", types.ErrTooManyBindings, len(bindings), types.MaxBindings)
	}
	return bindings, nil
}
