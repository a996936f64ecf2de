package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newCodeService() (*AdminCodeService, *fakeAdminRepo, *fakeCodeRepo, *fakeMailer) {
	adminRepo := &fakeAdminRepo{}
	codeRepo := &fakeCodeRepo{}
	mailer := &fakeMailer{}
	svc := NewAdminCodeService(adminRepo, codeRepo, mailer, fakeAuth{})
	svc.DevCodeResponse = true // tests read the plaintext code from the response
	return svc, adminRepo, codeRepo, mailer
}

func testRequest() AdminCodeRequest {
	return AdminCodeRequest{
		Name:      "Jordan Smith",
		Email:     "jordan@campus.example",
		RegNumber: "REG-1001",
		Year:      3,
	}
}

func TestRequestThenVerifySucceedsExactlyOnce(t *testing.T) {
	svc, _, _, _ := newCodeService()

	code, err := svc.RequestCode(testRequest())
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if code == "" {
		t.Fatal("dev mode should return the code")
	}

	token, admin, err := svc.VerifyCode("REG-1001", "Jordan Smith", code)
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if token == "" || admin == nil || admin.Email != "jordan@campus.example" {
		t.Fatalf("unexpected result: token=%q admin=%+v", token, admin)
	}

	// same code a second time is terminal
	if _, _, err := svc.VerifyCode("REG-1001", "Jordan Smith", code); !errors.Is(err, ErrCodeUsed) {
		t.Fatalf("second verify = %v, want ErrCodeUsed", err)
	}
}

func TestVerifyNameIsCaseInsensitive(t *testing.T) {
	svc, _, _, _ := newCodeService()
	code, _ := svc.RequestCode(testRequest())

	if _, _, err := svc.VerifyCode("REG-1001", "jordan smith", code); err != nil {
		t.Fatalf("case-insensitive name rejected: %v", err)
	}
}

func TestVerifyNameMismatch(t *testing.T) {
	svc, _, _, _ := newCodeService()
	code, _ := svc.RequestCode(testRequest())

	_, _, err := svc.VerifyCode("REG-1001", "Somebody Else", code)
	if !errors.Is(err, ErrNameMismatch) {
		t.Fatalf("err = %v, want ErrNameMismatch", err)
	}
	// a name mismatch must not burn an attempt
	if _, _, err := svc.VerifyCode("REG-1001", "Jordan Smith", code); err != nil {
		t.Fatalf("verify after mismatch: %v", err)
	}
}

func TestVerifyUnknownAdmin(t *testing.T) {
	svc, _, _, _ := newCodeService()
	if _, _, err := svc.VerifyCode("REG-NOPE", "", "123456"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("err = %v, want ErrAdminNotFound", err)
	}
}

func TestVerifyWithoutIssuedCode(t *testing.T) {
	svc, _, _, _ := newCodeService()
	// admin exists but never requested a code
	adminRepo := svc.AdminRepo.(*fakeAdminRepo)
	_ = adminRepo.Create(adminForTest())

	if _, _, err := svc.VerifyCode("REG-1001", "", "123456"); !errors.Is(err, ErrNoCode) {
		t.Fatalf("err = %v, want ErrNoCode", err)
	}
}

func TestSixthRequestWithinWindowIsRateLimited(t *testing.T) {
	svc, _, _, _ := newCodeService()

	for i := 0; i < 5; i++ {
		if _, err := svc.RequestCode(testRequest()); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}
	if _, err := svc.RequestCode(testRequest()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("6th request = %v, want ErrRateLimited", err)
	}
}

func TestConcurrentRequestsKeepIssueBudget(t *testing.T) {
	svc, _, codeRepo, _ := newCodeService()

	// fill the window up to one short of the budget
	for i := 0; i < 4; i++ {
		if _, err := svc.RequestCode(testRequest()); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}

	// all of these race for the single remaining slot
	var wg sync.WaitGroup
	var issued, limited atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch _, err := svc.RequestCode(testRequest()); {
			case err == nil:
				issued.Add(1)
			case errors.Is(err, ErrRateLimited):
				limited.Add(1)
			}
		}()
	}
	wg.Wait()

	if issued.Load() != 1 || limited.Load() != 7 {
		t.Fatalf("issued = %d, limited = %d, want 1 and 7", issued.Load(), limited.Load())
	}
	if len(codeRepo.codes) != 5 {
		t.Fatalf("code rows = %d, window budget is 5", len(codeRepo.codes))
	}
}

func TestExpiredCodeFailsEvenIfCorrect(t *testing.T) {
	svc, _, _, _ := newCodeService()
	svc.CodeTTL = -time.Minute // issue already-expired codes

	code, err := svc.RequestCode(testRequest())
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if _, _, err := svc.VerifyCode("REG-1001", "", code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("err = %v, want ErrCodeExpired", err)
	}
}

func TestAttemptBudgetExhaustion(t *testing.T) {
	svc, _, _, _ := newCodeService()
	code, _ := svc.RequestCode(testRequest())
	bad := wrongCode(code)

	for i := 0; i < 5; i++ {
		if _, _, err := svc.VerifyCode("REG-1001", "", bad); !errors.Is(err, ErrCodeInvalid) {
			t.Fatalf("wrong attempt %d = %v, want ErrCodeInvalid", i+1, err)
		}
	}
	// budget gone: even the correct code is refused now
	if _, _, err := svc.VerifyCode("REG-1001", "", code); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("err = %v, want ErrTooManyAttempts", err)
	}
}

func TestDeliveryFailureKeepsCodeRow(t *testing.T) {
	svc, _, codeRepo, mailer := newCodeService()
	mailer.fail = true

	_, err := svc.RequestCode(testRequest())
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("err = %v, want ErrDeliveryFailed", err)
	}
	// the row exists (undeliverable, but it counts toward the window)
	if len(codeRepo.codes) != 1 {
		t.Fatalf("code rows = %d, want 1", len(codeRepo.codes))
	}
}

func TestNewCodeSupersedesOldOne(t *testing.T) {
	svc, _, _, _ := newCodeService()

	first, _ := svc.RequestCode(testRequest())
	second, err := svc.RequestCode(testRequest())
	if err != nil {
		t.Fatalf("second RequestCode: %v", err)
	}

	// verification always targets the latest row, so the first code is dead
	// even though its row was never consumed
	if first != second {
		if _, _, err := svc.VerifyCode("REG-1001", "", first); !errors.Is(err, ErrCodeInvalid) {
			t.Fatalf("superseded code = %v, want ErrCodeInvalid", err)
		}
	}
	if _, _, err := svc.VerifyCode("REG-1001", "", second); err != nil {
		t.Fatalf("latest code rejected: %v", err)
	}
}

func TestRequestUpdatesExistingAdmin(t *testing.T) {
	svc, adminRepo, _, _ := newCodeService()

	if _, err := svc.RequestCode(testRequest()); err != nil {
		t.Fatalf("first request: %v", err)
	}
	req := testRequest()
	req.Name = "Jordan Q. Smith"
	req.Year = 4
	if _, err := svc.RequestCode(req); err != nil {
		t.Fatalf("second request: %v", err)
	}

	if len(adminRepo.admins) != 1 {
		t.Fatalf("admin rows = %d, want 1 (upsert)", len(adminRepo.admins))
	}
	if adminRepo.admins[0].Name != "Jordan Q. Smith" || adminRepo.admins[0].Year != 4 {
		t.Fatalf("profile not updated: %+v", adminRepo.admins[0])
	}
}

func TestRequestValidation(t *testing.T) {
	svc, _, _, _ := newCodeService()
	if _, err := svc.RequestCode(AdminCodeRequest{Name: "X"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
