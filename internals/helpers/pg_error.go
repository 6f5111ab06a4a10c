package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

/* ===============================
   PG error mapping
=================================*/

type pgSQLErr interface {
	SQLState() string
	Error() string
}

// Deteksi unique violation Postgres (kode "23505")
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	// string fallback (kompatibel untuk driver yang dibungkus)
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}

// MapPGError → (http status, pesan) untuk error DB umum.
// 23505 unique_violation, 23503 foreign_key_violation
func MapPGError(err error) (int, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fiber.StatusConflict, "Data duplikat (unique violation)."
		case "23503":
			return fiber.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		}
	}
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		switch pgErr.SQLState() {
		case "23505":
			return fiber.StatusConflict, "Data duplikat (unique violation)."
		case "23503":
			return fiber.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		}
	}
	if IsUniqueViolation(err) {
		return fiber.StatusConflict, "Data duplikat (unique violation)."
	}
	return fiber.StatusInternalServerError, err.Error()
}
