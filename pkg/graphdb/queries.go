package graphdb

// graphQuery returns the chunk-scoped entity subgraph for a set of document
// names. The chunk limit is formatted in because LIMIT inside a subquery
// cannot reference an outer parameter on all supported server versions.
const graphQuery = `
MATCH (d:Document)
WHERE d.fileName IN $document_names
CALL {
  WITH d
  MATCH (c:Chunk)-[:PART_OF]->(d)
  RETURN c
  ORDER BY c.position
  LIMIT %d
}
OPTIONAL MATCH (c)-[:HAS_ENTITY]->(e:__Entity__)
OPTIONAL MATCH (e)-[r]-(e2:__Entity__)
WITH d, c,
  collect(DISTINCT e) + collect(DISTINCT e2) AS entities,
  collect(DISTINCT r) AS entityRels
RETURN
  [d, c] + entities AS nodes,
  entityRels AS rels
`

const countChunksQuery = `
MATCH (c:Chunk)-[:PART_OF]->(d:Document {fileName: $file_name})
RETURN count(c) AS total_chunks
`

const chunkTextQuery = `
MATCH (c:Chunk)-[:PART_OF]->(d:Document {fileName: $file_name})
RETURN c.text AS chunk_text, c.position AS chunk_position, c.page_number AS page_number
ORDER BY c.position
SKIP $skip
LIMIT $limit
`

const schemaVisualizationQuery = `
CALL db.schema.visualization()
YIELD nodes, relationships
RETURN nodes, relationships
`

const completedDocumentsQuery = `
MATCH (d:Document {status: 'Completed'})
RETURN d.fileName AS file_name
ORDER BY d.fileName
`

const mergeDocumentQuery = `
MERGE (d:Document {fileName: $file_name})
ON CREATE SET d.createdAt = datetime()
SET d.status = $status,
    d.sourceType = $source_type,
    d.chunkCount = $chunk_count,
    d.updatedAt = datetime()
`

const createChunksQuery = `
MATCH (d:Document {fileName: $file_name})
UNWIND $chunks AS row
MERGE (c:Chunk {id: row.id})
SET c.text = row.text,
    c.position = row.position,
    c.page_number = row.page_number,
    c.start_time = row.start_time,
    c.end_time = row.end_time
MERGE (c)-[:PART_OF]->(d)
`

const linkFirstChunkQuery = `
MATCH (d:Document {fileName: $file_name})
MATCH (c:Chunk {id: $chunk_id})
MERGE (d)-[:FIRST_CHUNK]->(c)
`

const linkNextChunksQuery = `
UNWIND $pairs AS pair
MATCH (a:Chunk {id: pair.current})
MATCH (b:Chunk {id: pair.next})
MERGE (a)-[:NEXT_CHUNK]->(b)
`
