package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	_ "github.com/joho/godotenv/autoload" // automatically load .env files

	"github.com/yumosx/looplist/internal/cmd"
	"github.com/yumosx/looplist/internal/log"
)

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	if os.Getenv("LOOPLIST_PROFILE") != "" {
		go func() {
			slog.Info("Serving pprof at localhost:6060")
			if httpErr := http.ListenAndServe("localhost:6060", nil); httpErr != nil {
				slog.Error(fmt.Sprintf("Failed to pprof listen: %v", httpErr))
			}
		}()
	}

	cmd.Execute()
}
