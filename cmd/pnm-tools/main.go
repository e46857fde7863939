package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/ironsheep/pnm-tools/internal/config"
	"github.com/ironsheep/pnm-tools/internal/imaging"
	"github.com/ironsheep/pnm-tools/internal/server"
	"github.com/ironsheep/pnm-tools/pkg/pnm"
	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// cli holds the state shared by all subcommands.
type cli struct {
	logLevel string
	logJSON  bool
	logger   hclog.Logger
	stderr   io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "pnm-tools",
		Short: "Read, write and convert PBM, PGM and PPM images",
		Long: `pnm-tools works with the six Netpbm variants P1 to P6.

Logging goes to stderr. The level and format come from PNM_TOOLS_LOG_LEVEL
and PNM_TOOLS_LOG_FORMAT, and the flags below override them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&c.logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(
		c.infoCmd(),
		c.convertCmd(),
		c.negateCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup builds the logger from the environment and the persistent flags and
// hands a named child to the codec.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = strings.ToLower(c.logLevel)
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = c.logJSON
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.logger = cfg.NewLogger("pnm-tools", c.stderr)
	pnm.SetLogger(c.logger.Named("pnm"))
	return nil
}

func (c *cli) infoCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Decode a PNM file and print its header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := imaging.LoadImageInfo(imaging.NewImageCache(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(out, "%s %s (%s %s)\n", info.Magic, info.Variant, info.Encoding, info.Depth)
			fmt.Fprintf(out, "size:   %dx%d\n", info.Width, info.Height)
			fmt.Fprintf(out, "maxval: %d\n", info.Maxval)
			fmt.Fprintf(out, "bytes:  %d\n", info.FileSizeBytes)
			for _, s := range info.Comments {
				fmt.Fprintf(out, "#%s\n", s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the header as JSON")
	return cmd
}

func (c *cli) convertCmd() *cobra.Command {
	var (
		variant   string
		flatten   bool
		threshold uint8
	)
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a PNM file as another variant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := pnm.ParseVariant(variant)
			if err != nil {
				return err
			}
			img, err := pnm.Load(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			out, err := imaging.Convert(img, v, imaging.ConvertOptions{Flatten: flatten, Threshold: threshold})
			if err != nil {
				return err
			}
			defer out.Close()

			c.logger.Debug("converting", "from", img.Variant(), "to", v, "flatten", flatten)
			return pnm.Save(out, args[1])
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "Target magic number (P1-P6)")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "Reduce pixels to the depth of the target variant")
	cmd.Flags().Uint8Var(&threshold, "threshold", imaging.DefaultThreshold, "Luminance cut for bitmap flattening")
	if err := cmd.MarkFlagRequired("variant"); err != nil {
		panic(err)
	}
	return cmd
}

func (c *cli) negateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "negate <in> <out>",
		Short: "Write the negative of a PNM file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := pnm.Load(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			out, err := imaging.Negate(img)
			if err != nil {
				return err
			}
			defer out.Close()
			return pnm.Save(out, args[1])
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var scale float64
	cmd := &cobra.Command{
		Use:   "export <in> <out>",
		Short: "Write a PNM file as PNG, JPEG, GIF, TIFF or BMP",
		Long:  "Write a PNM file as PNG, JPEG, GIF, TIFF or BMP. The extension of <out> selects the format.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := pnm.Load(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			res, err := imaging.Export(img, args[1], scale)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %dx%d (%d bytes)\n", res.Path, res.Format, res.Width, res.Height, res.FileSizeBytes)
			return nil
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 1.0, "Scale factor (nearest-neighbor)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "import <in> <out>",
		Short: "Convert a PNG, JPEG, GIF, TIFF or BMP file into a PNM file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := pnm.ParseVariant(variant)
			if err != nil {
				return err
			}
			img, err := imaging.Import(args[0], v)
			if err != nil {
				return err
			}
			defer img.Close()
			return pnm.Save(img, args[1])
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "P6", "Magic number of the output (P1-P6)")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.logger.Info("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)
			srv := server.New(c.logger.Named("server"), Version)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pnm-tools %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			return nil
		},
	}
}
