package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration profiles",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetProfileCmd())
	cmd.AddCommand(newConfigUseProfileCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{Profiles: map[string]Profile{}}
			}
			out := cfg
			if !reveal {
				out = maskConfig(cfg)
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			fmt.Fprintf(os.Stdout, "current profile: %s\n", out.CurrentProfile)
			for name, p := range out.Profiles {
				fmt.Fprintf(os.Stdout, "\n[%s]\n", name)
				fmt.Fprintf(os.Stdout, "  host:   %s\n", p.Host)
				fmt.Fprintf(os.Stdout, "  token:  %s\n", p.Token)
				fmt.Fprintf(os.Stdout, "  output: %s\n", p.Output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "show secrets unmasked")
	return cmd
}

func newConfigSetProfileCmd() *cobra.Command {
	var (
		name   string
		host   string
		token  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "set-profile",
		Short: "Create or update a named profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{Profiles: map[string]Profile{}}
			}
			p := cfg.Profiles[name]
			var flagErr error
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				if !f.Changed {
					return
				}
				switch f.Name {
				case "host":
					p.Host = host
				case "token":
					p.Token = token
				case "output":
					if err := validateOutputFormat(output); err != nil {
						flagErr = err
						return
					}
					p.Output = output
				}
			})
			if flagErr != nil {
				return flagErr
			}
			cfg.Profiles[name] = p
			if cfg.CurrentProfile == "" {
				cfg.CurrentProfile = name
			}
			if err := SaveUserConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(os.Stdout, "profile %q saved\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name")
	cmd.Flags().StringVar(&host, "host", "", "server base URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().StringVar(&output, "output", "", "default output format (table|json)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newConfigUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			name := args[0]
			if _, ok := cfg.Profiles[name]; !ok {
				return fmt.Errorf("profile %q does not exist", name)
			}
			cfg.CurrentProfile = name
			if err := SaveUserConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(os.Stdout, "switched to profile %q\n", name)
			return nil
		},
	}
}

func maskConfig(cfg *UserConfig) *UserConfig {
	out := &UserConfig{
		CurrentProfile: cfg.CurrentProfile,
		Profiles:       make(map[string]Profile, len(cfg.Profiles)),
	}
	for name, p := range cfg.Profiles {
		p.Token = maskSecret(p.Token)
		out.Profiles[name] = p
	}
	return out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 10 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
