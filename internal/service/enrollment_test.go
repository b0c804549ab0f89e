package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
)

type enrollmentFixture struct {
	svc         *EnrollmentService
	enrollments *fakeEnrollmentRepo
	studentID   int64
	moduleID    int64
}

// newEnrollmentFixture seeds one student and one module in institution 10.
func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	ctx := context.Background()

	students := &fakeStudentRepo{}
	modules := &fakeModuleRepo{}
	st := &model.Student{InstitutionID: 10, FirstName: "Charlie", LastName: "Davis", Email: "charlie@school.test"}
	if err := students.CreateStudent(ctx, st); err != nil {
		t.Fatal(err)
	}
	m := &model.Module{InstitutionID: 10, Code: "PHY101", Name: "Physics Fundamentals"}
	if err := modules.CreateModule(ctx, m); err != nil {
		t.Fatal(err)
	}

	enrollments := &fakeEnrollmentRepo{}
	return &enrollmentFixture{
		svc:         NewEnrollmentService(enrollments, students, modules, nopLogger),
		enrollments: enrollments,
		studentID:   st.ID,
		moduleID:    m.ID,
	}
}

func TestCreateEnrollment_Success(t *testing.T) {
	f := newEnrollmentFixture(t)

	e, err := f.svc.Create(context.Background(), 10, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.ID == 0 || e.EnrolledAt.IsZero() {
		t.Errorf("enrollment = %+v", e)
	}
	if e.Grade != nil {
		t.Errorf("grade = %q, want nil", *e.Grade)
	}
}

func TestCreateEnrollment_BlankGradeIsNull(t *testing.T) {
	f := newEnrollmentFixture(t)

	e, err := f.svc.Create(context.Background(), 10, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID, Grade: strPtr("   ")})
	if err != nil {
		t.Fatal(err)
	}
	if e.Grade != nil {
		t.Errorf("grade = %q, want nil", *e.Grade)
	}
}

func TestCreateEnrollment_Duplicate(t *testing.T) {
	f := newEnrollmentFixture(t)
	in := CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID}

	if _, err := f.svc.Create(context.Background(), 10, in); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Create(context.Background(), 10, in)

	ae := appErr(t, err)
	if !errors.Is(ae, apperror.ErrConflict) || ae.Message != MsgAlreadyEnrolled {
		t.Errorf("err = %v, want conflict %q", err, MsgAlreadyEnrolled)
	}
}

func TestCreateEnrollment_NotFound(t *testing.T) {
	f := newEnrollmentFixture(t)

	tests := []struct {
		name          string
		institutionID int64
		in            CreateEnrollmentInput
	}{
		{"unknown student", 10, CreateEnrollmentInput{StudentID: 999, ModuleID: f.moduleID}},
		{"unknown module", 10, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: 999}},
		{"other institution", 20, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.institutionID, tt.in)
			ae := appErr(t, err)
			if !errors.Is(ae, apperror.ErrNotFound) || ae.Message != MsgStudentOrModuleNotFound {
				t.Errorf("err = %v", err)
			}
		})
	}
	if len(f.enrollments.enrollments) != 0 {
		t.Error("no enrollment should be stored")
	}
}

func TestCreateEnrollment_InvalidInput(t *testing.T) {
	f := newEnrollmentFixture(t)

	for _, in := range []CreateEnrollmentInput{{}, {StudentID: 1}, {ModuleID: 1}, {StudentID: -1, ModuleID: 1}} {
		_, err := f.svc.Create(context.Background(), 10, in)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%+v) = %v, want validation", in, err)
		}
	}

	long := strings.Repeat("A", maxGradeLen+1)
	_, err := f.svc.Create(context.Background(), 10, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID, Grade: &long})
	if ae := appErr(t, err); ae.Message != MsgGradeTooLong {
		t.Errorf("long grade: %v", err)
	}
}

func TestSetGrade(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, 10, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.SetGrade(ctx, 10, e.ID, GradeInput{Grade: strPtr(" A- ")}); err != nil {
		t.Fatalf("SetGrade() error = %v", err)
	}
	if g := f.enrollments.enrollments[0].Grade; g == nil || *g != "A-" {
		t.Errorf("stored grade = %v, want A-", g)
	}

	if err := f.svc.SetGrade(ctx, 10, e.ID, GradeInput{}); err != nil {
		t.Fatal(err)
	}
	if g := f.enrollments.enrollments[0].Grade; g != nil {
		t.Errorf("grade = %q, want cleared", *g)
	}

	err = f.svc.SetGrade(ctx, 20, e.ID, GradeInput{Grade: strPtr("B")})
	if ae := appErr(t, err); !errors.Is(ae, apperror.ErrNotFound) || ae.Message != MsgEnrollmentNotFound {
		t.Errorf("other institution: %v", err)
	}

	if err := f.svc.SetGrade(ctx, 10, 0, GradeInput{}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("SetGrade(0) = %v", err)
	}

	f.enrollments.gradeErr = errDBDown
	err = f.svc.SetGrade(ctx, 10, e.ID, GradeInput{Grade: strPtr("B")})
	if ae := appErr(t, err); ae.Message != MsgGradeEnrollmentFailed {
		t.Errorf("repo error: %v", err)
	}
}

func TestDeleteEnrollment_Idempotent(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, 10, CreateEnrollmentInput{StudentID: f.studentID, ModuleID: f.moduleID})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := f.svc.Delete(ctx, 10, e.ID); err != nil {
			t.Fatalf("Delete() #%d = %v", i+1, err)
		}
	}

	list, err := f.svc.List(ctx, 10)
	if err != nil || len(list) != 0 {
		t.Errorf("List() = %v, %v; want empty", list, err)
	}

	if err := f.svc.Delete(ctx, 10, -3); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Delete(-3) = %v", err)
	}
}

func TestEnrollments_RepoErrorsAreMasked(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.enrollments.listErr = errDBDown
	f.enrollments.deleteErr = errDBDown

	_, err := f.svc.List(context.Background(), 10)
	if ae := appErr(t, err); !errors.Is(ae, apperror.ErrInternal) || ae.Message != MsgLoadEnrollmentsFailed {
		t.Errorf("List() = %v", err)
	}
	err = f.svc.Delete(context.Background(), 10, 1)
	if ae := appErr(t, err); ae.Message != MsgDeleteEnrollmentFailed {
		t.Errorf("Delete() = %v", err)
	}
}
