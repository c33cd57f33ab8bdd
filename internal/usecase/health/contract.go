package health

// CorpusProbe reports the size of the loaded corpus.
type CorpusProbe interface {
	Len() int
}

// PoolProbe reports whether a worker pool still accepts tasks.
// *ants.Pool satisfies it.
type PoolProbe interface {
	IsClosed() bool
}
