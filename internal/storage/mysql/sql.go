package mysql

const upsertPropertySQL = `
INSERT INTO properties
  (id, adresse, gnr, bnr, beskrivelse, hero_image,
   energimerke, areal, areal_kontor, areal_servering, byggeaar,
   screenshots, sist_oppdatert)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  adresse         = VALUES(adresse),
  gnr             = VALUES(gnr),
  bnr             = VALUES(bnr),
  beskrivelse     = VALUES(beskrivelse),
  hero_image      = VALUES(hero_image),
  energimerke     = VALUES(energimerke),
  areal           = VALUES(areal),
  areal_kontor    = VALUES(areal_kontor),
  areal_servering = VALUES(areal_servering),
  byggeaar        = VALUES(byggeaar),
  screenshots     = VALUES(screenshots),
  sist_oppdatert  = VALUES(sist_oppdatert),
  updated_at      = CURRENT_TIMESTAMP
`

const insertMissSQL = `
INSERT INTO ingest_misses (source, reason)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectPropertyCols = `
SELECT
  id, adresse, gnr, bnr, beskrivelse, hero_image,
  energimerke, areal, areal_kontor, areal_servering, byggeaar,
  screenshots, sist_oppdatert
FROM properties
`

// id order keeps the listing stable between requests.
const listPropertiesSQL = selectPropertyCols + `ORDER BY id`

const getPropertySQL = selectPropertyCols + `WHERE id = ?`
