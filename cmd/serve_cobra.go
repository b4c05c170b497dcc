package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve reports over HTTP",
	Long:    "Start an HTTP server that compiles and executes reports under --root on demand.",
	GroupID: "serving",
	Example: `  ducksearch serve
  ducksearch serve --port 3000
  ducksearch serve --root ./project --host 0.0.0.0 --dev`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().Int("port", 8080, "server port")
	serveCmd.Flags().Int("workers", 1, "maximum concurrent embedded engine connections")
	serveCmd.Flags().Bool("dev", false, "watch reports/ and composites/ for changes")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.workers", serveCmd.Flags().Lookup("workers"))
}

func runServe(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	workers, _ := cmd.Flags().GetInt("workers")
	dev, _ := cmd.Flags().GetBool("dev")

	serveCommand := NewServeCommand(Root).
		WithHost(host).
		WithPort(port).
		WithWorkers(workers).
		WithDev(dev)

	return serveCommand.Execute(cmd.Context())
}
