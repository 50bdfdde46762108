package vtree

// Migrate carries progress trees from a previous snapshot chain into a new
// one. prev maps file path to the previous chain's tree; hashes maps file
// path to the content hash of the file in the new chain.
//
// A file whose content hash is unchanged keeps the previous tree itself:
// the new chain adopts it, preserving every already-computed status. Any
// other file gets a fresh empty tree. Migration is all-or-nothing per
// file; a partially matching tree is never merged.
func Migrate(prev map[string]*Tree, hashes map[string][32]byte) map[string]*Tree {
	out := make(map[string]*Tree, len(hashes))
	for path, hash := range hashes {
		if old, ok := prev[path]; ok && old != nil && old.Hash == hash {
			out[path] = old
			continue
		}
		out[path] = New(hash)
	}
	return out
}
