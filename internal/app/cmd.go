package app

import (
	"flag"
	"fmt"
	"io"

	"github.com/hitoshi/cozyyu/internal/loader"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandWorker はワーカーモードで起動することを示す。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandLoadMedia はメディアディレクトリの画像から商品を取り込むことを示す。
	CommandLoadMedia Command = "load-media"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "worker":
		return CommandWorker
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "load-media":
		return CommandLoadMedia
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

// ParseLoadMediaOptions はload-mediaサブコマンドのフラグを解析する。
// argsにはサブコマンド名より後ろの引数を渡す。
func ParseLoadMediaOptions(args []string, output io.Writer) (loader.Options, error) {
	fs := flag.NewFlagSet(string(CommandLoadMedia), flag.ContinueOnError)
	fs.SetOutput(output)
	clearItems := fs.Bool("clear", false, "取り込み前に既存の商品をすべて削除する")

	if err := fs.Parse(args); err != nil {
		return loader.Options{}, fmt.Errorf("invalid load-media flags: %w", err)
	}
	if fs.NArg() > 0 {
		return loader.Options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return loader.Options{Clear: *clearItems}, nil
}
