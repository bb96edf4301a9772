package mysql

const insertAnalysisSQL = `
INSERT INTO analyses
  (session_id, query, place_id, name, address, rating, lat, lng, summary)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Attaches the link to the newest analysis of that place in the session.
const updateShareSQL = `
UPDATE analyses
SET share_url = ?
WHERE session_id = ? AND place_id = ?
ORDER BY id DESC
LIMIT 1
`

// Newest first; served by idx_created.
const listRecentSQL = `
SELECT
  id,
  session_id,
  query,
  place_id,
  name,
  address,
  rating,
  lat,
  lng,
  summary,
  share_url,
  created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ?
`
