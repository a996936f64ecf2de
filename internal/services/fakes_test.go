package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"ices/internal/models"
)

// fakeAuth keeps tests off the real bcrypt cost while preserving the
// hash/verify contract.
type fakeAuth struct{}

func (fakeAuth) HashPassword(plain string) (string, error) {
	return "h:" + plain, nil
}

func (fakeAuth) CheckPassword(hash, plain string) bool {
	return hash == "h:"+plain
}

func (fakeAuth) IssueToken(subjectID int, role string) (string, error) {
	return fmt.Sprintf("token-%d-%s", subjectID, role), nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins []*models.Admin
	nextID int
}

func (r *fakeAdminRepo) Create(admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == admin.Email {
			return errors.New("duplicate email")
		}
	}
	r.nextID++
	admin.ID = r.nextID
	admin.CreatedAt = time.Now()
	cp := *admin
	r.admins = append(r.admins, &cp)
	return nil
}

func (r *fakeAdminRepo) GetByRegNumber(regNumber string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.RegNumber == regNumber {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) GetByEmail(email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) UpdateProfile(id int, name, email string, year int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.ID == id {
			a.Name, a.Email, a.Year = name, email, year
			return nil
		}
	}
	return errors.New("admin not found")
}

func (r *fakeAdminRepo) UpdatePasswordByEmail(email, newHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			a.PasswordHash = newHash
			return 1, nil
		}
	}
	return 0, nil
}

type fakeCodeRepo struct {
	mu     sync.Mutex
	codes  []*models.AdminCode
	nextID int64
}

// Create checks the window budget and inserts under one lock, matching the
// single-statement semantics of the real repository.
func (r *fakeCodeRepo) Create(adminID int, codeHash string, issuedAt, expiresAt time.Time, attemptsLeft int, since time.Time, maxIssued int) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.codes {
		if c.AdminID == adminID && !c.IssuedAt.Before(since) {
			n++
		}
	}
	if n >= maxIssued {
		return 0, false, nil
	}
	r.nextID++
	r.codes = append(r.codes, &models.AdminCode{
		ID:           r.nextID,
		AdminID:      adminID,
		CodeHash:     codeHash,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		AttemptsLeft: attemptsLeft,
	})
	return r.nextID, true, nil
}

func (r *fakeCodeRepo) GetLatestByAdminID(adminID int) (*models.AdminCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.AdminCode
	for _, c := range r.codes {
		if c.AdminID != adminID {
			continue
		}
		if latest == nil || c.IssuedAt.After(latest.IssuedAt) || (c.IssuedAt.Equal(latest.IssuedAt) && c.ID > latest.ID) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeCodeRepo) SpendAttempt(id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.ID == id && c.AttemptsLeft > 0 {
			c.AttemptsLeft--
			return c.AttemptsLeft, nil
		}
	}
	return 0, nil
}

func (r *fakeCodeRepo) MarkUsed(id int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.ID == id && c.UsedAt == nil && c.AttemptsLeft > 0 && c.ExpiresAt.After(now) {
			t := now
			c.UsedAt = &t
			return true, nil
		}
	}
	return false, nil
}

type fakeStudentRepo struct {
	students []*models.Student
	nextID   int
}

func (r *fakeStudentRepo) Create(student *models.Student) error {
	for _, s := range r.students {
		if s.Email == student.Email {
			return errDuplicate
		}
	}
	r.nextID++
	student.ID = r.nextID
	cp := *student
	r.students = append(r.students, &cp)
	return nil
}

// errDuplicate mimics what the sqlite driver reports on a unique clash so
// the service-level IsUniqueViolation mapping is exercised.
var errDuplicate = sqlite3.Error{
	Code:         sqlite3.ErrConstraint,
	ExtendedCode: sqlite3.ErrConstraintUnique,
}

func (r *fakeStudentRepo) GetByID(id int) (*models.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) GetByEmail(email string) (*models.Student, error) {
	for _, s := range r.students {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) List() ([]*models.Student, error) {
	return r.students, nil
}

func (r *fakeStudentRepo) UpdatePasswordByEmail(email, newHash string) (int64, error) {
	for _, s := range r.students {
		if s.Email == email {
			s.PasswordHash = newHash
			return 1, nil
		}
	}
	return 0, nil
}

// fakeMailer records outbound mail and can be told to fail.
type fakeMailer struct {
	mu    sync.Mutex
	fail  bool
	sent  []string // recipients in order
	codes []string // the code/OTP passed in, per send
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) SendAdminCode(email, code string) error {
	if err := m.Send(email, "", ""); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) SendResetOTP(email, otp string) error {
	if err := m.Send(email, "", ""); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, otp)
	return nil
}

func (m *fakeMailer) SendResetConfirmation(email string) error {
	return m.Send(email, "", "")
}

func (m *fakeMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1]
}

func adminForTest() *models.Admin {
	return &models.Admin{
		Name:         "Jordan Smith",
		Email:        "jordan@campus.example",
		RegNumber:    "REG-1001",
		Year:         3,
		PasswordHash: "h:placeholder",
	}
}

// wrongCode returns a 6-digit code different from the given one.
func wrongCode(code string) string {
	if strings.HasPrefix(code, "1") {
		return "222222"
	}
	return "111111"
}
