/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/taskdeck/cmd"
	"github.com/josephgoksu/taskdeck/internal/config"
	"github.com/josephgoksu/taskdeck/internal/logger"
)

func main() {
	defer logger.HandlePanic()

	if dir, err := config.GetGlobalConfigDir(); err == nil {
		logger.SetBasePath(dir)
	}

	cmd.Execute()
}
