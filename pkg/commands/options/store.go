package options

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/app"
	"tableflip.dev/logger/pkg/store"
)

// StoreOptions picks the entry store. An empty path defers to .logger.yaml
// and LOGGER_PATH.
type StoreOptions struct {
	Path string
}

func AddStoreArg(cmd *cobra.Command, so *StoreOptions) {
	cmd.PersistentFlags().StringVar(&so.Path, "path", "",
		"Directory holding the entry store (default ~/.logger.db).")
}

func (so *StoreOptions) Config() (store.Config, error) {
	if so.Path == "" {
		return store.LoadConfig()
	}
	path, err := homedir.Expand(so.Path)
	if err != nil {
		return nil, err
	}
	return store.PathConfig(path), nil
}

// Service opens the store and wraps it in an app.Service.
func (so *StoreOptions) Service() (*app.Service, error) {
	cfg, err := so.Config()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &app.Service{Persistence: p}, nil
}
