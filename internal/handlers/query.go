package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseIDList reads a comma-separated id list such as "1, 2,3". Tokens that
// are not positive integers are skipped.
func parseIDList(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, token := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(token), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// parseFlag reads an integer or boolean query value. Anything unparsable
// is false.
func parseFlag(raw string) bool {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n != 0
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}

// pathID parses the :id route parameter. ok is false for anything that
// cannot name a row.
func pathID(c *fiber.Ctx) (id uint, ok bool) {
	n, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Not found",
	})
}
