package implementation

// EmbeddingFor exposes embeddingFor to the external implementation_test package.
var EmbeddingFor = embeddingFor
