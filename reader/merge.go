package reader

import "github.com/rosbaglib/bagcore/model"

// mergeRelational implements spec.md §4.4's relational rule: when any
// backend file reports topics, the database is authoritative and the
// manifest's list is discarded outright. Multiple backend files are
// combined by (topic, type), summing counts, since the manifest is out of
// the picture entirely once any backend data exists.
//
// idMaps[i][localID] gives the final connection id for a message whose
// ConnectionID came from perFileConns[i]'s backend.
func mergeRelational(manifestConns []model.Connection, perFileConns [][]model.Connection) ([]model.Connection, []map[int]int) {
	idMaps := make([]map[int]int, len(perFileConns))
	for i := range idMaps {
		idMaps[i] = make(map[int]int)
	}

	anyBackendTopics := false
	for _, conns := range perFileConns {
		if len(conns) > 0 {
			anyBackendTopics = true
			break
		}
	}

	if !anyBackendTopics {
		return manifestConns, idMaps
	}

	var final []model.Connection
	index := make(map[model.ConnectionKey]int)

	for i, conns := range perFileConns {
		for _, c := range conns {
			key := c.Key()
			localID := c.ID

			if idx, ok := index[key]; ok {
				final[idx].MessageCount += c.MessageCount
				idMaps[i][localID] = final[idx].ID

				continue
			}

			c.ID = len(final) + 1
			final = append(final, c)
			index[key] = len(final) - 1
			idMaps[i][localID] = c.ID
		}
	}

	return final, idMaps
}

// mergeChunked implements spec.md §4.4's chunked-binary rule: the manifest
// supplies canonical type names, backend-measured counts win, and
// backend-only topics are appended at the end.
func mergeChunked(manifestConns []model.Connection, perFileConns [][]model.Connection) ([]model.Connection, []map[int]int) {
	idMaps := make([]map[int]int, len(perFileConns))
	for i := range idMaps {
		idMaps[i] = make(map[int]int)
	}

	final := append([]model.Connection(nil), manifestConns...)

	byTopic := make(map[string]int, len(final))
	for i, c := range final {
		byTopic[c.Topic] = i
	}

	sums := make(map[string]uint64)

	for i, conns := range perFileConns {
		for _, c := range conns {
			localID := c.ID

			idx, ok := byTopic[c.Topic]
			if !ok {
				c.ID = len(final) + 1
				final = append(final, c)
				idx = len(final) - 1
				byTopic[c.Topic] = idx
			}

			sums[c.Topic] += c.MessageCount
			idMaps[i][localID] = final[idx].ID
		}
	}

	for topic, sum := range sums {
		final[byTopic[topic]].MessageCount = sum
	}

	return final, idMaps
}

// pullMessageDefinitions fills in MessageDefinition/TypeDescriptionHash on
// final entries that lack them, by type, from whichever backend file
// happened to carry that information. The relational backend already
// embeds definitions directly in its Topics() result, so this is mostly a
// no-op there; the chunked-binary backend keeps definitions in its schema
// records, which only surface here.
func pullMessageDefinitions(final []model.Connection, perFileConns [][]model.Connection) []model.Connection {
	byType := make(map[string]model.Connection)

	for _, conns := range perFileConns {
		for _, c := range conns {
			if c.MessageDefinition != "" {
				byType[c.Type] = c
			}
		}
	}

	for i, c := range final {
		if c.MessageDefinition != "" {
			continue
		}

		if src, ok := byType[c.Type]; ok {
			final[i].MessageDefinition = src.MessageDefinition
			final[i].MessageDefinitionFmt = src.MessageDefinitionFmt

			if final[i].TypeDescriptionHash == "" {
				final[i].TypeDescriptionHash = src.TypeDescriptionHash
			}
		}
	}

	return final
}
