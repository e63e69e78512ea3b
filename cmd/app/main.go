package main

import (
	"go.uber.org/fx"

	"github.com/clipflow/clipflow/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
