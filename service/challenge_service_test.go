package service

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"otp-verify/config"
	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/pkg/otperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChallengeRepo is an in-memory stand-in for the Postgres repository.
// It mirrors the repository semantics: active means unused and unexpired,
// attempts only grow on unused records.
type fakeChallengeRepo struct {
	nextID     int
	challenges map[int]*entity.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{nextID: 1, challenges: make(map[int]*entity.Challenge)}
}

func (r *fakeChallengeRepo) Create(challenge *entity.Challenge) (*entity.Challenge, error) {
	c := *challenge
	c.ID = r.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.nextID++
	r.challenges[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeChallengeRepo) GetActive(subjectKey string, purpose entity.Purpose) (*entity.Challenge, error) {
	now := time.Now()
	var latest *entity.Challenge
	for _, c := range r.challenges {
		if c.SubjectKey != subjectKey || c.Purpose != purpose || c.IsUsed || !c.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *fakeChallengeRepo) IncrementAttempts(id int) (int, error) {
	c, ok := r.challenges[id]
	if !ok || c.IsUsed {
		return 0, fmt.Errorf("challenge %d not found or already used", id)
	}
	c.Attempts++
	return c.Attempts, nil
}

func (r *fakeChallengeRepo) MarkUsed(id int) error {
	c, ok := r.challenges[id]
	if !ok {
		return fmt.Errorf("challenge %d not found", id)
	}
	now := time.Now()
	c.IsUsed = true
	c.UsedAt = &now
	return nil
}

func (r *fakeChallengeRepo) SupersedeActive(subjectKey string, purpose entity.Purpose) error {
	for _, c := range r.challenges {
		if c.SubjectKey == subjectKey && c.Purpose == purpose && !c.IsUsed {
			now := time.Now()
			c.IsUsed = true
			c.UsedAt = &now
		}
	}
	return nil
}

func (r *fakeChallengeRepo) Delete(id int) error {
	delete(r.challenges, id)
	return nil
}

func (r *fakeChallengeRepo) DeleteExpired() (int64, error) {
	now := time.Now()
	var deleted int64
	for id, c := range r.challenges {
		if !c.ExpiresAt.After(now) {
			delete(r.challenges, id)
			deleted++
		}
	}
	return deleted, nil
}

// rewind shifts a stored challenge back in time, simulating elapsed
// cooldown or expiry without sleeping
func (r *fakeChallengeRepo) rewind(id int, d time.Duration) {
	c := r.challenges[id]
	c.CreatedAt = c.CreatedAt.Add(-d)
	c.ExpiresAt = c.ExpiresAt.Add(-d)
}

func (r *fakeChallengeRepo) latestID() int {
	return r.nextID - 1
}

type fakeUserRepo struct {
	nextID     int
	users      map[string]*entity.User
	lastLogins map[string]int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[string]*entity.User), lastLogins: make(map[string]int)}
}

func (r *fakeUserRepo) Create(user *entity.User) (*entity.User, error) {
	u := *user
	u.ID = r.nextID
	u.RegisteredAt = time.Now()
	u.IsActive = true
	r.nextID++
	r.users[u.PhoneNumber] = &u
	out := u
	return &out, nil
}

func (r *fakeUserRepo) GetByID(id int) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByPhoneNumber(phoneNumber string) (*entity.User, error) {
	u, ok := r.users[phoneNumber]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) List(page, pageSize int, search string) ([]entity.User, int, error) {
	var users []entity.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (r *fakeUserRepo) UpdateLastLogin(phoneNumber string) error {
	now := time.Now()
	if u, ok := r.users[phoneNumber]; ok {
		u.LastLoginAt = &now
	}
	r.lastLogins[phoneNumber]++
	return nil
}

type fakeRateLimitRepo struct {
	limits       map[string]*entity.RateLimitInfo
	cleanupCalls int
}

func newFakeRateLimitRepo() *fakeRateLimitRepo {
	return &fakeRateLimitRepo{limits: make(map[string]*entity.RateLimitInfo)}
}

func (r *fakeRateLimitRepo) GetRateLimit(subjectKey string) (*entity.RateLimitInfo, error) {
	info, ok := r.limits[subjectKey]
	if !ok {
		return nil, nil
	}
	out := *info
	return &out, nil
}

func (r *fakeRateLimitRepo) UpdateRateLimit(info *entity.RateLimitInfo) error {
	in := *info
	r.limits[info.SubjectKey] = &in
	return nil
}

func (r *fakeRateLimitRepo) CleanupRateLimits(olderThan time.Time) error {
	r.cleanupCalls++
	return nil
}

type fakeBlockRepo struct {
	subjects map[string]bool
	devices  map[string]bool
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{subjects: make(map[string]bool), devices: make(map[string]bool)}
}

func (r *fakeBlockRepo) IsSubjectBlocked(subjectKey string) (bool, error) {
	return r.subjects[subjectKey], nil
}

func (r *fakeBlockRepo) IsDeviceBlocked(deviceID string) (bool, error) {
	if deviceID == "" {
		return false, nil
	}
	return r.devices[deviceID], nil
}

func (r *fakeBlockRepo) BlockSubject(subjectKey, reason string, ttl time.Duration) error {
	r.subjects[subjectKey] = true
	return nil
}

func (r *fakeBlockRepo) BlockDevice(deviceID, reason string, ttl time.Duration) error {
	r.devices[deviceID] = true
	return nil
}

func (r *fakeBlockRepo) UnblockSubject(subjectKey string) error {
	delete(r.subjects, subjectKey)
	return nil
}

func (r *fakeBlockRepo) UnblockDevice(deviceID string) error {
	delete(r.devices, deviceID)
	return nil
}

// recordingSender captures dispatched messages and optionally fails
type recordingSender struct {
	recipients []string
	messages   []string
	failWith   error
}

func (s *recordingSender) SendSMS(phoneNumber, message string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.recipients = append(s.recipients, phoneNumber)
	s.messages = append(s.messages, message)
	return nil
}

func (s *recordingSender) SendEmail(email, subject, body string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.recipients = append(s.recipients, email)
	s.messages = append(s.messages, body)
	return nil
}

type serviceFixture struct {
	service       ChallengeService
	challengeRepo *fakeChallengeRepo
	userRepo      *fakeUserRepo
	rateLimitRepo *fakeRateLimitRepo
	blockRepo     *fakeBlockRepo
	sms           *recordingSender
	email         *recordingSender
	cfg           *config.Config
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	log, err := logger.New("error", "development")
	require.NoError(t, err)

	cfg := &config.Config{
		Application: config.Application{Environment: "development"},
		OTP: config.OTP{
			ExpirationTime: 10 * time.Minute,
			ResendCooldown: 60 * time.Second,
			MaxAttempts:    5,
		},
		RateLimit: config.RateLimit{
			MaxRequests:    3,
			WindowDuration: 10 * time.Minute,
		},
	}

	f := &serviceFixture{
		challengeRepo: newFakeChallengeRepo(),
		userRepo:      newFakeUserRepo(),
		rateLimitRepo: newFakeRateLimitRepo(),
		blockRepo:     newFakeBlockRepo(),
		sms:           &recordingSender{},
		email:         &recordingSender{},
		cfg:           cfg,
	}
	f.service = NewChallengeService(f.challengeRepo, f.userRepo, f.rateLimitRepo, f.blockRepo, f.sms, f.email, cfg, log)
	return f
}

// storedCode digs the generated code out of the repository, since a real
// send never returns it
func (f *serviceFixture) storedCode(t *testing.T, subject entity.Subject, purpose entity.Purpose) string {
	t.Helper()
	active, err := f.challengeRepo.GetActive(subject.Key(), purpose)
	require.NoError(t, err)
	require.NotNil(t, active)
	return active.Code
}

func TestChallengeService_Send_IssuesChallenge(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	result, err := f.service.Send(subject, entity.PurposeLogin, "device-1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, entity.ChannelSMS, result.Channel)
	assert.Empty(t, result.DebugCode)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), result.ExpiresAt, 5*time.Second)

	require.Len(t, f.sms.recipients, 1)
	assert.Equal(t, "+14155552671", f.sms.recipients[0])

	code := f.storedCode(t, subject, entity.PurposeLogin)
	assert.Len(t, code, 6)
	assert.Contains(t, f.sms.messages[0], code)
}

func TestChallengeService_Send_CooldownRejectsWithoutNewCode(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	firstCode := f.storedCode(t, subject, entity.PurposeLogin)

	_, err = f.service.Send(subject, entity.PurposeLogin, "")
	require.Error(t, err)

	otpErr, ok := otperr.As(err)
	require.True(t, ok)
	assert.Equal(t, otperr.KindResendTooSoon, otpErr.Kind)
	assert.Greater(t, otpErr.WaitSeconds, 0)
	assert.LessOrEqual(t, otpErr.WaitSeconds, 60)

	// The rejected send must not have touched the stored challenge
	assert.Equal(t, firstCode, f.storedCode(t, subject, entity.PurposeLogin))
	assert.Len(t, f.sms.recipients, 1)
}

func TestChallengeService_Send_AfterCooldownSupersedes(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	firstID := f.challengeRepo.latestID()
	firstCode := f.storedCode(t, subject, entity.PurposeLogin)

	f.challengeRepo.rewind(firstID, 61*time.Second)

	_, err = f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	assert.Len(t, f.sms.recipients, 2)

	// The old code must no longer verify, even though it was never expired
	_, err = f.service.Verify(subject, firstCode, entity.PurposeLogin)
	require.Error(t, err)

	secondCode := f.storedCode(t, subject, entity.PurposeLogin)
	if firstCode == secondCode {
		t.Skip("codes collided, cannot distinguish supersession")
	}

	user, err := f.service.Verify(subject, secondCode, entity.PurposeLogin)
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestChallengeService_Send_RateLimited(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	now := time.Now()
	require.NoError(t, f.rateLimitRepo.UpdateRateLimit(&entity.RateLimitInfo{
		SubjectKey:    subject.Key(),
		RequestCount:  3,
		LastRequestAt: now,
		WindowStartAt: now.Add(-time.Minute),
	}))

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.Error(t, err)
	assert.Equal(t, otperr.KindRateLimited, otperr.KindOf(err))
	assert.Empty(t, f.sms.recipients)
}

func TestChallengeService_Send_RateLimitWindowExpired(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	now := time.Now()
	require.NoError(t, f.rateLimitRepo.UpdateRateLimit(&entity.RateLimitInfo{
		SubjectKey:    subject.Key(),
		RequestCount:  3,
		LastRequestAt: now.Add(-11 * time.Minute),
		WindowStartAt: now.Add(-11 * time.Minute),
	}))

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)

	// The counter restarted with the new window
	info, err := f.rateLimitRepo.GetRateLimit(subject.Key())
	require.NoError(t, err)
	assert.Equal(t, 1, info.RequestCount)
}

func TestChallengeService_Send_BlockedSubject(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")
	require.NoError(t, f.blockRepo.BlockSubject(subject.Key(), "fraud", 0))

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.Error(t, err)
	assert.Equal(t, otperr.KindPhoneBlocked, otperr.KindOf(err))
	assert.Empty(t, f.sms.recipients)
}

func TestChallengeService_Send_BlockedDevice(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")
	require.NoError(t, f.blockRepo.BlockDevice("bad-device", "abuse", 0))

	_, err := f.service.Send(subject, entity.PurposeLogin, "bad-device")
	require.Error(t, err)
	assert.Equal(t, otperr.KindDeviceBlocked, otperr.KindOf(err))

	// Same subject from an unblocked device still goes through
	_, err = f.service.Send(subject, entity.PurposeLogin, "good-device")
	require.NoError(t, err)
}

func TestChallengeService_Send_DeliveryFailureRemovesChallenge(t *testing.T) {
	f := newServiceFixture(t)
	f.sms.failWith = fmt.Errorf("provider unreachable")
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.Error(t, err)
	assert.Equal(t, otperr.KindDeliveryFailed, otperr.KindOf(err))

	// No phantom challenge may survive to hold a cooldown
	active, err := f.challengeRepo.GetActive(subject.Key(), entity.PurposeLogin)
	require.NoError(t, err)
	assert.Nil(t, active)

	// And a retry after the provider recovers works immediately
	f.sms.failWith = nil
	_, err = f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
}

func TestChallengeService_Send_DebugModeReturnsCode(t *testing.T) {
	f := newServiceFixture(t)
	f.cfg.OTP.DebugExposeCode = true
	subject := entity.EmailSubject("dev@example.com")

	result, err := f.service.Send(subject, entity.PurposeVerification, "")
	require.NoError(t, err)

	assert.Len(t, result.DebugCode, 6)
	assert.Empty(t, f.email.recipients, "debug mode must not dispatch")

	// The returned code is the live one
	_, err = f.service.Verify(subject, result.DebugCode, entity.PurposeVerification)
	require.NoError(t, err)
}

func TestChallengeService_Send_DebugModeIgnoredInProduction(t *testing.T) {
	f := newServiceFixture(t)
	f.cfg.OTP.DebugExposeCode = true
	f.cfg.Application.Environment = "production"
	subject := entity.EmailSubject("dev@example.com")

	result, err := f.service.Send(subject, entity.PurposeVerification, "")
	require.NoError(t, err)

	assert.Empty(t, result.DebugCode)
	assert.Len(t, f.email.recipients, 1)
}

func TestChallengeService_Send_InvalidPurpose(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Send(entity.PhoneSubject("+14155552671"), entity.Purpose("unknown"), "")
	require.Error(t, err)
}

func TestChallengeService_Verify_SuccessCreatesUser(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	code := f.storedCode(t, subject, entity.PurposeLogin)

	user, err := f.service.Verify(subject, code, entity.PurposeLogin)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "+14155552671", user.PhoneNumber)
	assert.True(t, user.IsActive)

	// The challenge is consumed: the same code cannot verify twice
	_, err = f.service.Verify(subject, code, entity.PurposeLogin)
	require.Error(t, err)
	assert.Equal(t, otperr.KindNoActiveCode, otperr.KindOf(err))
}

func TestChallengeService_Verify_ExistingUserUpdatesLastLogin(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")
	_, err := f.userRepo.Create(&entity.User{PhoneNumber: "+14155552671"})
	require.NoError(t, err)

	_, err = f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	code := f.storedCode(t, subject, entity.PurposeLogin)

	user, err := f.service.Verify(subject, code, entity.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, 1, f.userRepo.lastLogins["+14155552671"])
}

func TestChallengeService_Verify_NoActiveCode(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Verify(entity.PhoneSubject("+14155552671"), "123456", entity.PurposeLogin)
	require.Error(t, err)
	assert.Equal(t, otperr.KindNoActiveCode, otperr.KindOf(err))
}

func TestChallengeService_Verify_WrongCodeBurnsAttempt(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	code := f.storedCode(t, subject, entity.PurposeLogin)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err = f.service.Verify(subject, wrong, entity.PurposeLogin)
	require.Error(t, err)

	otpErr, ok := otperr.As(err)
	require.True(t, ok)
	assert.Equal(t, otperr.KindCodeMismatch, otpErr.Kind)
	assert.Equal(t, 4, otpErr.AttemptsRemaining)

	// The correct code still works after a single miss
	user, err := f.service.Verify(subject, code, entity.PurposeLogin)
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestChallengeService_Verify_ExhaustionLocksOutCorrectCode(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	code := f.storedCode(t, subject, entity.PurposeLogin)

	for i := 1; i <= 5; i++ {
		wrong := "00000" + strconv.Itoa(i%10)
		if wrong == code {
			wrong = "999990"
		}
		_, err = f.service.Verify(subject, wrong, entity.PurposeLogin)
		require.Error(t, err)

		otpErr, ok := otperr.As(err)
		require.True(t, ok)
		assert.Equal(t, otperr.KindCodeMismatch, otpErr.Kind)
		assert.Equal(t, 5-i, otpErr.AttemptsRemaining)
	}

	// Budget spent: even the correct code is refused now
	_, err = f.service.Verify(subject, code, entity.PurposeLogin)
	require.Error(t, err)
	assert.Equal(t, otperr.KindTooManyAttempts, otperr.KindOf(err))

	// The exhausted record was retired, so the next call sees nothing
	_, err = f.service.Verify(subject, code, entity.PurposeLogin)
	require.Error(t, err)
	assert.Equal(t, otperr.KindNoActiveCode, otperr.KindOf(err))
}

func TestChallengeService_Verify_ExpiredChallenge(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	code := f.storedCode(t, subject, entity.PurposeLogin)

	f.challengeRepo.rewind(f.challengeRepo.latestID(), 11*time.Minute)

	_, err = f.service.Verify(subject, code, entity.PurposeLogin)
	require.Error(t, err)
	assert.Equal(t, otperr.KindNoActiveCode, otperr.KindOf(err))
}

func TestChallengeService_Verify_EmailChannelReturnsNoUser(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.EmailSubject("person@example.com")

	_, err := f.service.Send(subject, entity.PurposeRegistration, "")
	require.NoError(t, err)
	code := f.storedCode(t, subject, entity.PurposeRegistration)

	user, err := f.service.Verify(subject, code, entity.PurposeRegistration)
	require.NoError(t, err)
	assert.Nil(t, user, "email verification does not resolve an account")
	assert.Empty(t, f.userRepo.users)
}

func TestChallengeService_Verify_EmailCaseInsensitive(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Send(entity.EmailSubject("Person@Example.COM"), entity.PurposeRegistration, "")
	require.NoError(t, err)

	lower := entity.EmailSubject("person@example.com")
	code := f.storedCode(t, lower, entity.PurposeRegistration)

	_, err = f.service.Verify(lower, code, entity.PurposeRegistration)
	require.NoError(t, err)
}

func TestChallengeService_PurposesAreIndependent(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.EmailSubject("person@example.com")

	_, err := f.service.Send(subject, entity.PurposeRegistration, "")
	require.NoError(t, err)

	// A different purpose for the same subject is not held by the cooldown
	_, err = f.service.Send(subject, entity.PurposePasswordReset, "")
	require.NoError(t, err)

	regCode := f.storedCode(t, subject, entity.PurposeRegistration)
	_, err = f.service.Verify(subject, regCode, entity.PurposePasswordReset)
	if err == nil {
		t.Skip("codes collided across purposes")
	}
	require.Error(t, err)
}

func TestChallengeService_ResendCooldown(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	remaining, err := f.service.ResendCooldown(subject, entity.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), remaining)

	_, err = f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)

	remaining, err = f.service.ResendCooldown(subject, entity.PurposeLogin)
	require.NoError(t, err)
	assert.Greater(t, remaining, 50*time.Second)
	assert.LessOrEqual(t, remaining, 60*time.Second)
}

func TestChallengeService_HasPendingVerification(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	pending, err := f.service.HasPendingVerification(subject, entity.PurposeLogin)
	require.NoError(t, err)
	assert.False(t, pending)

	_, err = f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)

	pending, err = f.service.HasPendingVerification(subject, entity.PurposeLogin)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestChallengeService_CleanupExpired(t *testing.T) {
	f := newServiceFixture(t)
	subject := entity.PhoneSubject("+14155552671")

	_, err := f.service.Send(subject, entity.PurposeLogin, "")
	require.NoError(t, err)
	f.challengeRepo.rewind(f.challengeRepo.latestID(), 11*time.Minute)

	require.NoError(t, f.service.CleanupExpired())

	assert.Empty(t, f.challengeRepo.challenges)
	assert.Equal(t, 1, f.rateLimitRepo.cleanupCalls)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[code] = true
	}
	// 200 uniform draws from 900000 values collide rarely; a single
	// repeated value across the whole run would be suspicious enough
	assert.Greater(t, len(seen), 190)
}
