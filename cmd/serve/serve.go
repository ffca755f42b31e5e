// Package serve starts the web UI
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"vtran/txn-categorizer/cmd/root"
	"vtran/txn-categorizer/internal/web"

	"github.com/spf13/cobra"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long: `Start the web UI. Upload a category list and a transaction ledger,
review the categorized transactions and download them as an Excel file.`,
	Run: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	Cmd.Flags().StringVarP(&root.AbbreviationsFile, "abbreviations", "a", "", "Abbreviation dictionary (.xlsx or .xls)")
}

func serveFunc(cmd *cobra.Command, args []string) {
	cfg := root.Config()
	if addr == "" {
		addr = cfg.Server.Address
	}

	c, err := root.GetContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing: %v", err)
	}

	info := web.Info{
		Model:         c.GetLLMClient().Name(),
		Abbreviations: c.GetDictionary().Len(),
	}
	srv, err := web.NewServer(cfg, c.GetPipeline(), info, c.GetLogger())
	if err != nil {
		root.Log.Fatalf("Error creating web server: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		root.Log.Fatalf("Server error: %v", err)
	}
	root.Log.Info("Server stopped")
}
