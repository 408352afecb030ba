package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		assetDir string
		noCache  bool
		tf       templateFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the validate and render endpoints over HTTP until interrupted.
Logo paths in requests are resolved inside the asset directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tpl, err := tf.resolve(c.Config)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = c.Config.Addr
			}
			srv := server.New(runner,
				server.WithLogger(loggerFromContext(ctx)),
				server.WithTemplate(tpl),
				server.WithAssetDir(assetDir),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env "+EnvAddr+", default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&assetDir, "assets", ".", "directory logo paths are resolved in")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")
	addTemplateFlags(cmd, &tf)
	return cmd
}
