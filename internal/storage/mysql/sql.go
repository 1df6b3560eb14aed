package mysql

const bookingColumns = `
  id, booking_reference, user_id, hotel_id, hotel_name, status,
  check_in, check_out, nights, rooms, guests_count, room_type, guests,
  contact_name, contact_email, contact_phone, special_requests,
  total_amount, currency, room, location, created_at`

const insertBookingSQL = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `SELECT` + bookingColumns + `
FROM bookings
WHERE id = ?
`

// Newest first; served by ix_bookings_user_created.
const listBookingsByUserSQL = `SELECT` + bookingColumns + `
FROM bookings
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const getProfileSQL = `
SELECT
  user_id, display_name, email, date_of_birth, nationality, id_number, id_expiry, phone_number
FROM user_profiles
WHERE user_id = ?
`

const upsertProfileSQL = `
INSERT INTO user_profiles
  (user_id, display_name, email, date_of_birth, nationality, id_number, id_expiry, phone_number)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  display_name  = VALUES(display_name),
  email         = VALUES(email),
  date_of_birth = VALUES(date_of_birth),
  nationality   = VALUES(nationality),
  id_number     = VALUES(id_number),
  id_expiry     = VALUES(id_expiry),
  phone_number  = VALUES(phone_number)
`

const insertMissSQL = `
INSERT INTO fetch_misses (hotel_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`
