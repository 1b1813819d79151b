package mysql

// -----------------------------------------------------------------------------
// ACCOUNTS
// -----------------------------------------------------------------------------

const insertAccountSQL = `
INSERT INTO accounts (name, email, password)
VALUES (?, ?, ?)
`

const updateAccountSQL = `
UPDATE accounts
SET name = ?, email = ?, password = ?
WHERE id = ?
`

const updateAccountPasswordSQL = `
UPDATE accounts
SET password = ?
WHERE id = ?
`

const accountColumns = `id, name, email, password, created_at, updated_at`

const getAccountByIDSQL = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = ?
`

const getAccountByEmailSQL = `
SELECT ` + accountColumns + `
FROM accounts
WHERE email = ?
`

const existsAccountByEmailSQL = `
SELECT EXISTS(SELECT 1 FROM accounts WHERE email = ?)
`

// -----------------------------------------------------------------------------
// SERVICE PROPOSALS
// -----------------------------------------------------------------------------

const proposalColumns = `
  id, name, description, location, votes,
  proposed_by_id, owner_email, end_date, reservation_link,
  delegation, sector, provider, institution, category,
  average_rating, review_count, created_at, updated_at`

const listProposalsSQL = `
SELECT ` + proposalColumns + `
FROM service_proposals
ORDER BY id
`

const getProposalSQL = `
SELECT ` + proposalColumns + `
FROM service_proposals
WHERE id = ?
`

const insertProposalSQL = `
INSERT INTO service_proposals
  (name, description, location, votes,
   proposed_by_id, owner_email, end_date, reservation_link,
   delegation, sector, provider, institution, category,
   average_rating, review_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateProposalSQL = `
UPDATE service_proposals
SET name = ?, description = ?, location = ?, votes = ?,
    proposed_by_id = ?, owner_email = ?, end_date = ?, reservation_link = ?,
    delegation = ?, sector = ?, provider = ?, institution = ?, category = ?,
    average_rating = ?, review_count = ?
WHERE id = ?
`

const deleteProposalSQL = `
DELETE FROM service_proposals WHERE id = ?
`

// -----------------------------------------------------------------------------
// REVIEWS
// -----------------------------------------------------------------------------

const reviewColumns = `
  id, service_proposal_id, client_email, client_name, provider,
  rating, comment, review_date, booking_start_date, booking_end_date, created_at`

const insertReviewSQL = `
INSERT INTO reviews
  (service_proposal_id, client_email, client_name, provider,
   rating, comment, review_date, booking_start_date, booking_end_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReviewSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE id = ?
`

// Newest first; aligns with the index on (service_proposal_id, created_at).
const listReviewsByServiceSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE service_proposal_id = ?
ORDER BY created_at DESC, id DESC
`

const listReviewsByClientSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE client_email = ?
ORDER BY created_at DESC, id DESC
`

const deleteReviewSQL = `
DELETE FROM reviews WHERE id = ?
`

const existsReviewSQL = `
SELECT EXISTS(
  SELECT 1 FROM reviews
  WHERE service_proposal_id = ? AND client_email = ?
)
`
