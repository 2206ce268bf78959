package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/pkg/validator"
)

func validSaveRequest() absence.SaveAbsenceRequest {
	sub := "EMP00002"
	return absence.SaveAbsenceRequest{
		StartDate:                "2024-07-01",
		EndDate:                  "2024-07-05",
		AbsenceType:              "vacation",
		EmployeeNumber:           "EMP00001",
		SubstituteEmployeeNumber: &sub,
	}
}

func TestParseSaveRequest_Success(t *testing.T) {
	t.Parallel()
	cmd, err := parseSaveRequest(validSaveRequest())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), cmd.StartDate)
	assert.Equal(t, time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC), cmd.EndDate)
	assert.Equal(t, absence.TypeVacation, cmd.AbsenceType)
	assert.Equal(t, "EMP00001", cmd.EmployeeNumber)
	require.NotNil(t, cmd.SubstituteEmployeeNumber)
	assert.Equal(t, "EMP00002", *cmd.SubstituteEmployeeNumber)
}

func TestParseSaveRequest_TypeNormalized(t *testing.T) {
	t.Parallel()
	req := validSaveRequest()
	req.AbsenceType = "  Sick_Leave "

	cmd, err := parseSaveRequest(req)
	require.NoError(t, err)
	assert.Equal(t, absence.TypeSickLeave, cmd.AbsenceType)
}

func TestParseSaveRequest_CollectsAllViolations(t *testing.T) {
	t.Parallel()
	bad := "nope"
	req := absence.SaveAbsenceRequest{
		StartDate:                "01/07/2024",
		EndDate:                  "",
		AbsenceType:              "holiday",
		EmployeeNumber:           "E1",
		SubstituteEmployeeNumber: &bad,
	}

	_, err := parseSaveRequest(req)
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "absence_type")
	assert.Contains(t, fields, "employee_number")
	assert.Contains(t, fields, "substitute_employee_number")
}

func TestParseSaveRequest_OmittedSubstitute(t *testing.T) {
	t.Parallel()
	req := validSaveRequest()
	req.SubstituteEmployeeNumber = nil

	cmd, err := parseSaveRequest(req)
	require.NoError(t, err)
	assert.Nil(t, cmd.SubstituteEmployeeNumber)
}
