package main

import (
	"github.com/crucial707/dosasset/cmd/cli/assets"
	"github.com/crucial707/dosasset/cmd/cli/auth"
	"github.com/crucial707/dosasset/cmd/cli/data"
	"github.com/crucial707/dosasset/cmd/cli/root"
	"github.com/crucial707/dosasset/cmd/cli/shell"
)

func main() {
	rootCmd := root.GetRoot()
	assets.InitAssets(rootCmd)
	data.InitData(rootCmd)
	auth.InitAuth(rootCmd)
	shell.InitShell(rootCmd)

	root.Execute()
}
