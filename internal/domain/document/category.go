package document

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category groups documents within a company
type Category struct {
	shared.CompanyAggregateRoot
	Name            string
	Description     string
	Color           string
	RetentionMonths int
}

// NewCategory creates a document category
func NewCategory(companyID, createdBy uuid.UUID, name, description, color string, retentionMonths int) (*Category, error) {
	c := &Category{CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy)}
	if err := c.apply(name, description, color, retentionMonths); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the category fields
func (c *Category) Update(name, description, color string, retentionMonths int) error {
	if err := c.apply(name, description, color, retentionMonths); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

func (c *Category) apply(name, description, color string, retentionMonths int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.InvalidInput("Category name is required")
	}
	if len(name) > 100 {
		return shared.InvalidInput("Category name cannot exceed 100 characters")
	}
	color = strings.TrimSpace(color)
	if color != "" && !colorPattern.MatchString(color) {
		return shared.InvalidInput("Color must be a hex value like #1A2B3C")
	}
	if retentionMonths < 0 {
		return shared.InvalidInput("Retention months cannot be negative")
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.Color = strings.ToUpper(color)
	c.RetentionMonths = retentionMonths
	return nil
}
