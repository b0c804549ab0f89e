package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================

var errDBDown = errors.New("connection refused")

var nopLogger = zerolog.New(io.Discard)

type fakeAdminRepo struct {
	admins map[string]*model.Admin // keyed by lower-cased email
	getErr error
	calls  int
}

func newFakeAdminRepo(admins ...*model.Admin) *fakeAdminRepo {
	f := &fakeAdminRepo{admins: make(map[string]*model.Admin)}
	for _, a := range admins {
		f.admins[strings.ToLower(a.Email)] = a
	}
	return f
}

func (f *fakeAdminRepo) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.admins[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NotFound("admin not found")
	}
	return a, nil
}

func (f *fakeAdminRepo) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	f.admins[strings.ToLower(admin.Email)] = admin
	return nil
}

type fakeTutorRepo struct {
	mu        sync.Mutex
	tutors    []model.Tutor
	nextID    int64
	existsErr error
	createErr error
	listErr   error
	// skipExistsCheck makes TutorEmailExists report false, as if a
	// concurrent insert landed between the check and the insert
	skipExistsCheck bool
}

func (f *fakeTutorRepo) TutorEmailExists(ctx context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipExistsCheck {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tutors {
		if t.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTutorRepo) CreateTutor(ctx context.Context, tutor *model.Tutor) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tutors {
		if t.Email == tutor.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	tutor.ID = f.nextID
	tutor.CreatedAt = time.Now().UTC()
	f.tutors = append(f.tutors, *tutor)
	return nil
}

func (f *fakeTutorRepo) GetTutor(ctx context.Context, institutionID, tutorID int64) (*model.Tutor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tutors {
		if t.ID == tutorID && t.InstitutionID == institutionID {
			return &t, nil
		}
	}
	return nil, apperror.NotFound("tutor not found")
}

func (f *fakeTutorRepo) ListTutors(ctx context.Context, institutionID int64) ([]model.Tutor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Tutor
	for i := len(f.tutors) - 1; i >= 0; i-- {
		if f.tutors[i].InstitutionID == institutionID {
			out = append(out, f.tutors[i])
		}
	}
	return out, nil
}

type fakeModuleRepo struct {
	modules   []model.Module
	nextID    int64
	createErr error
	getErr    error
	listErr   error
	deleteErr error
}

func (f *fakeModuleRepo) CreateModule(ctx context.Context, m *model.Module) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now().UTC()
	f.modules = append(f.modules, *m)
	return nil
}

func (f *fakeModuleRepo) GetModule(ctx context.Context, institutionID, moduleID int64) (*model.Module, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, m := range f.modules {
		if m.ID == moduleID && m.InstitutionID == institutionID {
			return &m, nil
		}
	}
	return nil, apperror.NotFound("module not found")
}

func (f *fakeModuleRepo) ListModules(ctx context.Context, institutionID int64) ([]model.Module, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Module
	for i := len(f.modules) - 1; i >= 0; i-- {
		if f.modules[i].InstitutionID == institutionID {
			out = append(out, f.modules[i])
		}
	}
	return out, nil
}

func (f *fakeModuleRepo) DeleteModule(ctx context.Context, institutionID, moduleID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	for i, m := range f.modules {
		if m.ID == moduleID && m.InstitutionID == institutionID {
			f.modules = append(f.modules[:i], f.modules[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeAssignmentRepo struct {
	assignments []model.Assignment
	nextID      int64
	createErr   error
	deleteErr   error
}

func (f *fakeAssignmentRepo) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.assignments {
		if existing.ModuleID == a.ModuleID && existing.TutorID == a.TutorID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.AssignedAt = time.Now().UTC()
	f.assignments = append(f.assignments, *a)
	return nil
}

func (f *fakeAssignmentRepo) ListAssignments(ctx context.Context, institutionID int64) ([]model.AssignmentDetail, error) {
	var out []model.AssignmentDetail
	for _, a := range f.assignments {
		if a.InstitutionID == institutionID {
			out = append(out, model.AssignmentDetail{Assignment: a})
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) DeleteAssignment(ctx context.Context, institutionID, assignmentID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	for i, a := range f.assignments {
		if a.ID == assignmentID && a.InstitutionID == institutionID {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeStudentRepo struct {
	students  []model.Student
	nextID    int64
	createErr error
	getErr    error
	listErr   error
}

func (f *fakeStudentRepo) CreateStudent(ctx context.Context, st *model.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.students {
		if existing.InstitutionID == st.InstitutionID && existing.Email == st.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	st.ID = f.nextID
	st.CreatedAt = time.Now().UTC()
	f.students = append(f.students, *st)
	return nil
}

func (f *fakeStudentRepo) GetStudent(ctx context.Context, institutionID, studentID int64) (*model.Student, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, st := range f.students {
		if st.ID == studentID && st.InstitutionID == institutionID {
			return &st, nil
		}
	}
	return nil, apperror.NotFound("student not found")
}

func (f *fakeStudentRepo) ListStudents(ctx context.Context, institutionID int64) ([]model.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Student
	for i := len(f.students) - 1; i >= 0; i-- {
		if f.students[i].InstitutionID == institutionID {
			out = append(out, f.students[i])
		}
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	enrollments []model.Enrollment
	nextID      int64
	createErr   error
	listErr     error
	gradeErr    error
	deleteErr   error
}

func (f *fakeEnrollmentRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.enrollments {
		if existing.StudentID == e.StudentID && existing.ModuleID == e.ModuleID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	e.ID = f.nextID
	e.EnrolledAt = time.Now().UTC()
	f.enrollments = append(f.enrollments, *e)
	return nil
}

func (f *fakeEnrollmentRepo) ListEnrollments(ctx context.Context, institutionID int64) ([]model.EnrollmentDetail, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.EnrollmentDetail
	for _, e := range f.enrollments {
		if e.InstitutionID == institutionID {
			out = append(out, model.EnrollmentDetail{Enrollment: e})
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) SetEnrollmentGrade(ctx context.Context, institutionID, enrollmentID int64, grade *string) (int64, error) {
	if f.gradeErr != nil {
		return 0, f.gradeErr
	}
	for i, e := range f.enrollments {
		if e.ID == enrollmentID && e.InstitutionID == institutionID {
			f.enrollments[i].Grade = grade
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeEnrollmentRepo) DeleteEnrollment(ctx context.Context, institutionID, enrollmentID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	for i, e := range f.enrollments {
		if e.ID == enrollmentID && e.InstitutionID == institutionID {
			f.enrollments = append(f.enrollments[:i], f.enrollments[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeDashboardRepo struct {
	counts model.DashboardCounts
	err    error
}

func (f *fakeDashboardRepo) Counts(ctx context.Context, institutionID int64) (*model.DashboardCounts, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.counts
	return &c, nil
}

var (
	_ repository.AdminRepository      = (*fakeAdminRepo)(nil)
	_ repository.TutorRepository      = (*fakeTutorRepo)(nil)
	_ repository.ModuleRepository     = (*fakeModuleRepo)(nil)
	_ repository.AssignmentRepository = (*fakeAssignmentRepo)(nil)
	_ repository.StudentRepository    = (*fakeStudentRepo)(nil)
	_ repository.EnrollmentRepository = (*fakeEnrollmentRepo)(nil)
	_ repository.DashboardRepository  = (*fakeDashboardRepo)(nil)
)

// =========================================================================
// ASSERTION HELPERS
// =========================================================================

// appErr unwraps err into an *AppError or fails the test.
func appErr(t interface {
	Helper()
	Fatalf(string, ...any)
}, err error) *apperror.AppError {
	t.Helper()
	var ae *apperror.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v (%T) is not an *apperror.AppError", err, err)
	}
	return ae
}
