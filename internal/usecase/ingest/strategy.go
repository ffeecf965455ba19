package ingest

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"

	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
)

// rowStrategy decides how one joined row's identity, contact details and
// protected-characteristic cells become stored values. The standard
// strategy keeps the row's own answers; the redacting strategy substitutes
// placeholders and in-set random draws so a load-test or demo database
// never carries real identities.
type rowStrategy interface {
	identity(row rowValues) (firstName string, lastName string)
	emails(row rowValues) (primary string, secondary *string, err error)
	roleTitle(row rowValues) string
	characteristic(ctx context.Context, dim ports.Dimension, raw string) (*uint64, error)
}

type standardStrategy struct {
	lookups  ports.LookupRepository
	contract Contract
}

func (s standardStrategy) identity(row rowValues) (string, string) {
	return row.get(colFirstName), row.get(colLastName)
}

func (s standardStrategy) emails(row rowValues) (string, *string, error) {
	addresses := talent.SplitEmailAddresses(row.get(colEmail))
	if len(addresses) == 0 {
		return "", nil, errs.Wrapf(talent.ErrNoEmailAddress, "person %q", row.get(colPersonID))
	}

	primary := strings.ToLower(addresses[0])
	if len(addresses) > 1 {
		secondary := strings.ToLower(addresses[1])
		return primary, &secondary, nil
	}
	return primary, nil, nil
}

func (s standardStrategy) roleTitle(row rowValues) string {
	if title := row.get(colJobTitle); title != "" {
		return title
	}
	return s.contract.Values.MissingTitle
}

// characteristic resolves a survey answer against its dimension by exact
// value. A miss keeps the reference null; it never substitutes another
// existing value.
func (s standardStrategy) characteristic(ctx context.Context, dim ports.Dimension, raw string) (*uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := s.lookups.FindDimensionValue(ctx, dim, raw)
	if errors.Is(err, talent.ErrUnknownLookupValue) {
		logging.Warn(ctx, "characteristic value not in dimension",
			slog.String("dimension", string(dim)),
			slog.String("value", raw),
		)
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrapf(err, "resolve %s", dim)
	}
	return &value.ID, nil
}

type redactingStrategy struct {
	lookups  ports.LookupRepository
	contract Contract
}

const (
	redactedFirstName = "[REDACTED - FIRST NAME]"
	redactedLastName  = "[REDACTED - LAST NAME]"
	redactedJobTitle  = "[REDACTED - JOB TITLE]"
)

func (s redactingStrategy) identity(rowValues) (string, string) {
	return redactedFirstName, redactedLastName
}

// emails keeps rows joinable on re-runs without storing a real address:
// the synthetic primary derives from the personnel id alone.
func (s redactingStrategy) emails(row rowValues) (string, *string, error) {
	personID := row.get(colPersonID)
	if personID == "" {
		return "", nil, errs.Wrap(talent.ErrNoEmailAddress, "row has no person id to redact against")
	}
	return strings.ToLower(personID) + "@" + s.contract.Values.RedactedEmailDomain, nil, nil
}

func (s redactingStrategy) roleTitle(rowValues) string {
	return redactedJobTitle
}

// characteristic ignores the row's true answer and draws uniformly from
// the dimension's full value set, preserving the shape of the marginal
// distribution without keeping anyone's real answers.
func (s redactingStrategy) characteristic(ctx context.Context, dim ports.Dimension, _ string) (*uint64, error) {
	values, err := s.lookups.ListDimensionValues(ctx, dim)
	if err != nil {
		return nil, errs.Wrapf(err, "list %s values", dim)
	}
	if len(values) == 0 {
		return nil, errs.Wrapf(talent.ErrEmptyLookupDimension, "%s", dim)
	}

	pick := values[rand.IntN(len(values))]
	return &pick.ID, nil
}
