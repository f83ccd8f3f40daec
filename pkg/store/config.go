package store

// Config locates the journal on disk.
type Config interface {
	BasePath() string
}

// Path is a Config for a fixed directory.
type Path string

func (p Path) BasePath() string {
	return string(p)
}
