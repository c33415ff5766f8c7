package addons

import (
	internalloader "github.com/goliatone/go-addons/internal/loader"
	"github.com/goliatone/go-addons/pkg/schema"
)

// NewLoader constructs the built-in file, fs.FS and HTTP loader while keeping
// the concrete type hidden from consumers.
func NewLoader(opts schema.LoaderOptions) schema.Loader {
	return internalloader.New(opts)
}
