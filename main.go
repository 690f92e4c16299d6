package main

import (
	"github.com/sstvd/sstvd/internal/api"
	"github.com/sstvd/sstvd/internal/api/ws"
	"github.com/sstvd/sstvd/internal/app"
	"github.com/sstvd/sstvd/internal/remote"
	"github.com/sstvd/sstvd/pkg/shell"
)

func main() {
	app.Init() // init config and logs

	api.Init()
	ws.Init()
	remote.Init()

	shell.RunUntilSignal()

	remote.Shutdown()
}
