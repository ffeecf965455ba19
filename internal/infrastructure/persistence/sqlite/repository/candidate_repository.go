package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/infrastructure/persistence/sqlite/model"
	"talenttrack/internal/ports"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *CandidateRepository) CreateCandidate(ctx context.Context, candidate ports.Candidate) (ports.Candidate, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Candidate{}, err
	}

	row := candidateToModel(candidate)
	if err := db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.Candidate{}, errs.Wrapf(talent.ErrDuplicateEmail, "candidate %q", candidate.PrimaryEmail)
		}
		return ports.Candidate{}, errs.Wrap(err, "insert candidate")
	}
	return candidateFromModel(row), nil
}

func (r *CandidateRepository) GetCandidate(ctx context.Context, id uint64) (ports.Candidate, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Candidate{}, err
	}

	var row model.Candidate
	if err := db.Where("candidate_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Candidate{}, errs.Wrapf(talent.ErrCandidateNotFound, "id %d", id)
		}
		return ports.Candidate{}, errs.Wrap(err, "query candidate")
	}
	return candidateFromModel(row), nil
}

func (r *CandidateRepository) FindCandidateByEmail(ctx context.Context, email string) (ports.Candidate, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Candidate{}, err
	}

	var row model.Candidate
	err = db.
		Where("primary_email = ? OR secondary_email = ?", email, email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Candidate{}, errs.Wrapf(talent.ErrCandidateNotFound, "email %q", email)
		}
		return ports.Candidate{}, errs.Wrap(err, "query candidate by email")
	}
	return candidateFromModel(row), nil
}

func (r *CandidateRepository) UpdateCandidateEmail(ctx context.Context, id uint64, address string, primary bool) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	column := "secondary_email"
	if primary {
		column = "primary_email"
	}

	result := db.Model(&model.Candidate{}).
		Where("candidate_id = ?", id).
		Update(column, address)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return errs.Wrapf(talent.ErrDuplicateEmail, "address %q", address)
		}
		return errs.Wrap(result.Error, "update candidate email")
	}
	if result.RowsAffected == 0 {
		return errs.Wrapf(talent.ErrCandidateNotFound, "id %d", id)
	}
	return nil
}

func (r *CandidateRepository) UpdateCandidateName(ctx context.Context, id uint64, firstName string, lastName string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Candidate{}).
		Where("candidate_id = ?", id).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update candidate name")
	}
	if result.RowsAffected == 0 {
		return errs.Wrapf(talent.ErrCandidateNotFound, "id %d", id)
	}
	return nil
}

func (r *CandidateRepository) CandidatesWith(ctx context.Context, dim ports.Dimension, valueID uint64) ([]ports.Candidate, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	column, err := candidateColumn(dim)
	if err != nil {
		return nil, err
	}

	var rows []model.Candidate
	if err := db.Where(column+" = ?", valueID).Order("candidate_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrapf(err, "query candidates with %s", dim)
	}

	items := make([]ports.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, candidateFromModel(row))
	}
	return items, nil
}

func (r *CandidateRepository) CreateRole(ctx context.Context, role ports.Role) (ports.Role, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Role{}, err
	}

	row := model.Role{
		CandidateID:    role.CandidateID,
		DateStarted:    role.DateStarted,
		Title:          role.Title,
		OrganisationID: role.OrganisationID,
		ProfessionID:   role.ProfessionID,
		LocationID:     role.LocationID,
		GradeID:        role.GradeID,
		ChangeTypeID:   role.ChangeTypeID,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Role{}, errs.Wrap(err, "insert role")
	}
	return roleFromModel(row), nil
}

func (r *CandidateRepository) GetRole(ctx context.Context, id uint64) (ports.Role, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Role{}, err
	}

	var row model.Role
	if err := db.Where("role_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Role{}, errs.Wrapf(talent.ErrNoRoleHistory, "role id %d", id)
		}
		return ports.Role{}, errs.Wrap(err, "query role")
	}
	return roleFromModel(row), nil
}

func (r *CandidateRepository) ListRoles(ctx context.Context, candidateID uint64) ([]ports.Role, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Role
	err = db.
		Where("candidate_id = ?", candidateID).
		Order("date_started desc").
		Find(&rows).Error
	if err != nil {
		return nil, errs.Wrap(err, "query roles")
	}

	items := make([]ports.Role, 0, len(rows))
	for _, row := range rows {
		items = append(items, roleFromModel(row))
	}
	return items, nil
}

func (r *CandidateRepository) CreateRoleChangeEvent(ctx context.Context, event ports.RoleChangeEvent) (ports.RoleChangeEvent, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.RoleChangeEvent{}, err
	}

	row := model.RoleChangeEvent{
		CandidateID:  event.CandidateID,
		ChangeDate:   event.ChangeDate,
		FormerRoleID: event.FormerRoleID,
		NewRoleID:    event.NewRoleID,
		ChangeTypeID: event.ChangeTypeID,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.RoleChangeEvent{}, errs.Wrap(err, "insert role change event")
	}
	return eventFromModel(row), nil
}

func (r *CandidateRepository) LatestRoleChangeEvent(ctx context.Context, candidateID uint64) (ports.RoleChangeEvent, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.RoleChangeEvent{}, err
	}

	var row model.RoleChangeEvent
	err = db.
		Where("candidate_id = ?", candidateID).
		Order("change_date desc").
		Order("role_change_event_id desc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RoleChangeEvent{}, errs.Wrapf(talent.ErrNoRoleHistory, "candidate %d", candidateID)
		}
		return ports.RoleChangeEvent{}, errs.Wrap(err, "query latest role change event")
	}
	return eventFromModel(row), nil
}

func (r *CandidateRepository) ListRoleChangeEvents(ctx context.Context, candidateID uint64) ([]ports.RoleChangeEvent, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.RoleChangeEvent
	err = db.
		Where("candidate_id = ?", candidateID).
		Order("change_date desc").
		Order("role_change_event_id desc").
		Find(&rows).Error
	if err != nil {
		return nil, errs.Wrap(err, "query role change events")
	}

	items := make([]ports.RoleChangeEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, eventFromModel(row))
	}
	return items, nil
}

func (r *CandidateRepository) EventForRole(ctx context.Context, roleID uint64) (ports.RoleChangeEvent, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.RoleChangeEvent{}, err
	}

	var row model.RoleChangeEvent
	if err := db.Where("new_role_id = ?", roleID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RoleChangeEvent{}, errs.Wrapf(talent.ErrNoRoleHistory, "role %d has no originating event", roleID)
		}
		return ports.RoleChangeEvent{}, errs.Wrap(err, "query event for role")
	}
	return eventFromModel(row), nil
}

func (r *CandidateRepository) CountEventsOfKind(ctx context.Context, candidateID uint64, changeTypeID uint64, after time.Time, before time.Time) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = db.Model(&model.RoleChangeEvent{}).
		Where("candidate_id = ?", candidateID).
		Where("change_type_id = ?", changeTypeID).
		Where("change_date >= ? AND change_date <= ?", after, before).
		Count(&count).Error
	if err != nil {
		return 0, errs.Wrap(err, "count role change events")
	}
	return count, nil
}

func (r *CandidateRepository) CreateApplication(ctx context.Context, application ports.Application) (ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Application{}, err
	}

	row := applicationToModel(application)
	if err := db.Create(&row).Error; err != nil {
		return ports.Application{}, errs.Wrap(err, "insert application")
	}
	return applicationFromModel(row), nil
}

func (r *CandidateRepository) MostRecentApplication(ctx context.Context, candidateID uint64) (ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Application{}, err
	}

	var row model.Application
	err = db.
		Where("candidate_id = ?", candidateID).
		Order("application_date desc").
		Order("application_id desc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Application{}, errs.Wrapf(talent.ErrNoApplications, "candidate %d", candidateID)
		}
		return ports.Application{}, errs.Wrap(err, "query most recent application")
	}
	return applicationFromModel(row), nil
}

func (r *CandidateRepository) ListApplications(ctx context.Context, candidateID uint64) ([]ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Application
	err = db.
		Where("candidate_id = ?", candidateID).
		Order("application_date desc").
		Find(&rows).Error
	if err != nil {
		return nil, errs.Wrap(err, "query applications")
	}

	items := make([]ports.Application, 0, len(rows))
	for _, row := range rows {
		items = append(items, applicationFromModel(row))
	}
	return items, nil
}

func (r *CandidateRepository) UpdateApplicationSchemeStart(ctx context.Context, applicationID uint64, newStart time.Time) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Application{}).
		Where("application_id = ?", applicationID).
		Update("scheme_start_date", newStart)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update application scheme start")
	}
	if result.RowsAffected == 0 {
		return errs.Wrapf(talent.ErrNoApplications, "application id %d", applicationID)
	}
	return nil
}

func (r *CandidateRepository) CreateLeadershipSurvey(ctx context.Context, survey ports.LeadershipSurvey) (ports.LeadershipSurvey, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.LeadershipSurvey{}, err
	}

	base := model.LeadershipSurvey{
		ApplicationID:   survey.ApplicationID,
		Kind:            string(survey.Kind),
		ConfidentLeader: survey.ConfidentLeader,
		InspiringLeader: survey.InspiringLeader,
		WhenNewRole:     survey.WhenNewRole,
		ConfidenceBuilt: survey.ConfidenceBuilt,
	}
	if err := db.Create(&base).Error; err != nil {
		return ports.LeadershipSurvey{}, errs.Wrap(err, "insert leadership survey")
	}

	switch survey.Kind {
	case ports.SurveyFLS:
		if survey.FLS == nil {
			return ports.LeadershipSurvey{}, errors.New("fls survey requires fls answers")
		}
		payload := model.FLSLeadership{
			LeadershipSurveyID:  base.LeadershipSurveyID,
			IncreasedVisibility: survey.FLS.IncreasedVisibility,
		}
		if err := db.Create(&payload).Error; err != nil {
			return ports.LeadershipSurvey{}, errs.Wrap(err, "insert fls answers")
		}
	case ports.SurveySLS:
		if survey.SLS == nil {
			return ports.LeadershipSurvey{}, errors.New("sls survey requires sls answers")
		}
		payload := model.SLSLeadership{
			LeadershipSurveyID: base.LeadershipSurveyID,
			WorkDifferently:    survey.SLS.WorkDifferently,
			UsingTools:         survey.SLS.UsingTools,
			FeelReady:          survey.SLS.FeelReady,
		}
		if err := db.Create(&payload).Error; err != nil {
			return ports.LeadershipSurvey{}, errs.Wrap(err, "insert sls answers")
		}
	default:
		return ports.LeadershipSurvey{}, fmt.Errorf("unknown survey kind %q", survey.Kind)
	}

	survey.ID = base.LeadershipSurveyID
	return survey, nil
}

func (r *CandidateRepository) GetLeadershipSurvey(ctx context.Context, id uint64) (ports.LeadershipSurvey, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.LeadershipSurvey{}, err
	}

	var base model.LeadershipSurvey
	if err := db.Where("leadership_survey_id = ?", id).First(&base).Error; err != nil {
		return ports.LeadershipSurvey{}, errs.Wrap(err, "query leadership survey")
	}

	out := ports.LeadershipSurvey{
		ID:              base.LeadershipSurveyID,
		ApplicationID:   base.ApplicationID,
		Kind:            ports.SurveyKind(base.Kind),
		ConfidentLeader: base.ConfidentLeader,
		InspiringLeader: base.InspiringLeader,
		WhenNewRole:     base.WhenNewRole,
		ConfidenceBuilt: base.ConfidenceBuilt,
	}

	switch out.Kind {
	case ports.SurveyFLS:
		var payload model.FLSLeadership
		if err := db.Where("leadership_survey_id = ?", id).First(&payload).Error; err != nil {
			return ports.LeadershipSurvey{}, errs.Wrap(err, "query fls answers")
		}
		out.FLS = &ports.FLSAnswers{IncreasedVisibility: payload.IncreasedVisibility}
	case ports.SurveySLS:
		var payload model.SLSLeadership
		if err := db.Where("leadership_survey_id = ?", id).First(&payload).Error; err != nil {
			return ports.LeadershipSurvey{}, errs.Wrap(err, "query sls answers")
		}
		out.SLS = &ports.SLSAnswers{
			WorkDifferently: payload.WorkDifferently,
			UsingTools:      payload.UsingTools,
			FeelReady:       payload.FeelReady,
		}
	}
	return out, nil
}

// isUniqueViolation matches the sqlite unique-constraint error text; gorm
// does not normalise it across drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}

func candidateToModel(c ports.Candidate) model.Candidate {
	return model.Candidate{
		CandidateID:             c.ID,
		FirstName:               c.FirstName,
		LastName:                c.LastName,
		PrimaryEmail:            c.PrimaryEmail,
		SecondaryEmail:          c.SecondaryEmail,
		JoiningDate:             c.JoiningDate,
		CompletedFastStream:     c.CompletedFastStream,
		CaringResponsibility:    c.CaringResponsibility,
		LongTermHealthCondition: c.LongTermHealthCondition,
		JoiningGradeID:          c.JoiningGradeID,
		AgeRangeID:              c.AgeRangeID,
		WorkingPatternID:        c.WorkingPatternID,
		BeliefID:                c.BeliefID,
		SexualityID:             c.SexualityID,
		GenderID:                c.GenderID,
		EthnicityID:             c.EthnicityID,
		MainJobTypeID:           c.MainJobTypeID,
	}
}

func candidateFromModel(row model.Candidate) ports.Candidate {
	return ports.Candidate{
		ID:                      row.CandidateID,
		FirstName:               row.FirstName,
		LastName:                row.LastName,
		PrimaryEmail:            row.PrimaryEmail,
		SecondaryEmail:          row.SecondaryEmail,
		JoiningDate:             row.JoiningDate,
		CompletedFastStream:     row.CompletedFastStream,
		CaringResponsibility:    row.CaringResponsibility,
		LongTermHealthCondition: row.LongTermHealthCondition,
		JoiningGradeID:          row.JoiningGradeID,
		AgeRangeID:              row.AgeRangeID,
		WorkingPatternID:        row.WorkingPatternID,
		BeliefID:                row.BeliefID,
		SexualityID:             row.SexualityID,
		GenderID:                row.GenderID,
		EthnicityID:             row.EthnicityID,
		MainJobTypeID:           row.MainJobTypeID,
	}
}

func roleFromModel(row model.Role) ports.Role {
	return ports.Role{
		ID:             row.RoleID,
		CandidateID:    row.CandidateID,
		DateStarted:    row.DateStarted,
		Title:          row.Title,
		OrganisationID: row.OrganisationID,
		ProfessionID:   row.ProfessionID,
		LocationID:     row.LocationID,
		GradeID:        row.GradeID,
		ChangeTypeID:   row.ChangeTypeID,
	}
}

func eventFromModel(row model.RoleChangeEvent) ports.RoleChangeEvent {
	return ports.RoleChangeEvent{
		ID:           row.RoleChangeEventID,
		CandidateID:  row.CandidateID,
		ChangeDate:   row.ChangeDate,
		FormerRoleID: row.FormerRoleID,
		NewRoleID:    row.NewRoleID,
		ChangeTypeID: row.ChangeTypeID,
	}
}

func applicationToModel(a ports.Application) model.Application {
	return model.Application{
		ApplicationID:       a.ID,
		CandidateID:         a.CandidateID,
		SchemeID:            a.SchemeID,
		ApplicationDate:     a.ApplicationDate,
		SchemeStartDate:     a.SchemeStartDate,
		AspirationalGradeID: a.AspirationalGradeID,
		EmployeeNumber:      a.EmployeeNumber,
		Successful:          a.Successful,
		Meta:                a.Meta,
		Delta:               a.Delta,
		Cohort:              a.Cohort,
		Withdrawn:           a.Withdrawn,
	}
}

func applicationFromModel(row model.Application) ports.Application {
	return ports.Application{
		ID:                  row.ApplicationID,
		CandidateID:         row.CandidateID,
		SchemeID:            row.SchemeID,
		ApplicationDate:     row.ApplicationDate,
		SchemeStartDate:     row.SchemeStartDate,
		AspirationalGradeID: row.AspirationalGradeID,
		EmployeeNumber:      row.EmployeeNumber,
		Successful:          row.Successful,
		Meta:                row.Meta,
		Delta:               row.Delta,
		Cohort:              row.Cohort,
		Withdrawn:           row.Withdrawn,
	}
}
