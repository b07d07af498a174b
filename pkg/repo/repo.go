package repo

import "github.com/gat-vcs/gat/pkg/object"

// MetaDirName is the repository marker directory created at the root of
// the working tree.
const MetaDirName = ".gat"

// Repo represents an opened gat repository.
type Repo struct {
	RootDir string        // working directory root
	GatDir  string        // .gat/ metadata directory
	Config  *Config       // validated repository configuration
	Store   *object.Store // content-addressed object store
}
