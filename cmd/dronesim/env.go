package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindEnv lets DRONESIM_* variables, or a .env file in the working
// directory, supply any persistent flag the user did not set.
func bindEnv(root *cobra.Command) *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DRONESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	return v
}
