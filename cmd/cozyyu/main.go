// Command cozyyu は家具カタログストアのAPIサーバー・ワーカー・管理コマンドを提供する。
//
// 使い方:
//
//	cozyyu [serve|worker|migrate|load-media [--clear]|healthcheck]
package main

import (
	"log/slog"
	"os"

	"github.com/hitoshi/cozyyu/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
