// Package autoload configures the global logger from LOG_* environment
// variables when imported for side effects.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/tanpawarit/ml-end-to-end/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOG", &conf); err != nil {
		panic(err)
	}
	if err := logx.Init(conf); err != nil {
		panic(err)
	}
}
