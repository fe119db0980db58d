package component

import "github.com/spachava753/compatmatrix/internal/models"

// tool is the command vocabulary of one source-control kind.
type tool struct {
	binary   string
	clone    []string
	checkout []string // discards local changes and moves to the ref appended last
	latest   string   // revision naming the newest commit
}

var tools = map[models.Kind]tool{
	models.KindHg: {
		binary:   "hg",
		clone:    []string{"clone"},
		checkout: []string{"update", "--clean"},
		latest:   "tip",
	},
	models.KindGit: {
		binary:   "git",
		clone:    []string{"clone"},
		checkout: []string{"checkout", "--force"},
		latest:   models.Wildcard,
	},
}

// defaultBuild installs the component with a home-scheme layout so that
// modules land in <prefix>/lib/python and scripts in <prefix>/bin.
var defaultBuild = []string{"python", "setup.py", "install", "--force", "--home", "{prefix}"}
