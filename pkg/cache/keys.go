package cache

// TreeKey keys a decoded tree by the comment text it was extracted from.
func TreeKey(comment string) string {
	return "tree:" + Hash([]byte(comment))
}

// LayoutKey keys a computed layout by the hash of its serialized tree.
func LayoutKey(treeHash string) string {
	return "layout:" + treeHash
}

// ArtifactKey keys rendered output by tree hash and output format.
func ArtifactKey(treeHash, format string) string {
	return "artifact:" + format + ":" + treeHash
}
