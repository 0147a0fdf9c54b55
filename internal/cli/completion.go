package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/octigrid/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for octigrid.

Completions cover the route, lattice, cache, config and serve commands
with their flags, including the format values accepted by route -f.

To load completions:

Bash:
  $ source <(octigrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ octigrid completion bash > /etc/bash_completion.d/octigrid
  # macOS:
  $ octigrid completion bash > $(brew --prefix)/etc/bash_completion.d/octigrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ octigrid completion zsh > "${fpath[1]}/_octigrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ octigrid completion fish | source

  # To load completions for each session, execute once:
  $ octigrid completion fish > ~/.config/fish/completions/octigrid.fish

PowerShell:
  PS> octigrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> octigrid completion powershell > octigrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeFormats completes the last entry of a comma-separated --format
// value, skipping formats already listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	used := strings.Split(prefix, ",")

	var out []string
	for _, f := range pipeline.Formats {
		if slices.Contains(used, f) || !strings.HasPrefix(f, last) {
			continue
		}
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeTopology offers JSON files for the topology argument.
func completeTopology(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
