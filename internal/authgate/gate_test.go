package authgate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubBiometrics struct {
	available bool
	err       error
	prompts   int
}

func (b *stubBiometrics) Available(ctx context.Context) bool {
	return b.available
}

func (b *stubBiometrics) Prompt(ctx context.Context, reason string) error {
	b.prompts++
	return b.err
}

type stubVerifier struct {
	err   error
	calls int
}

func (v *stubVerifier) Verify(ctx context.Context, password string) error {
	v.calls++
	return v.err
}

func TestBeginPromptSelection(t *testing.T) {
	testCases := []struct {
		name      string
		available bool
		optedIn   bool
		want      State
	}{
		{
			name:      "BiometricAvailableAndOptedIn",
			available: true,
			optedIn:   true,
			want:      StateBiometricPrompt,
		},
		{
			name:      "BiometricNotOptedIn",
			available: true,
			optedIn:   false,
			want:      StatePasswordPrompt,
		},
		{
			name:      "BiometricUnavailable",
			available: false,
			optedIn:   true,
			want:      StatePasswordPrompt,
		},
		{
			name: "NeitherAvailableNorOptedIn",
			want: StatePasswordPrompt,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			gate := New(&stubBiometrics{available: tc.available}, &stubVerifier{}, tc.optedIn)
			require.Equal(t, StateIdle, gate.State())

			got, err := gate.Begin(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.want, gate.State())
		})
	}
}

func TestBeginTwice(t *testing.T) {
	gate := New(&stubBiometrics{}, &stubVerifier{}, false)

	_, err := gate.Begin(context.Background())
	require.NoError(t, err)

	_, err = gate.Begin(context.Background())
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmBiometric(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		bio := &stubBiometrics{available: true}
		gate := New(bio, &stubVerifier{}, true)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)

		require.NoError(t, gate.ConfirmBiometric(ctx, "confirm transfer"))
		require.Equal(t, StateAuthorized, gate.State())
		require.Equal(t, 1, bio.prompts)
	})

	t.Run("FailureReturnsToIdle", func(t *testing.T) {
		bio := &stubBiometrics{available: true, err: errors.New("no match")}
		verifier := &stubVerifier{}
		gate := New(bio, verifier, true)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)

		require.Error(t, gate.ConfirmBiometric(ctx, "confirm transfer"))
		require.Equal(t, StateIdle, gate.State())

		// No silent password fallback on biometric failure.
		require.Zero(t, verifier.calls)
	})

	t.Run("CapabilityLostAfterBegin", func(t *testing.T) {
		bio := &stubBiometrics{available: true}
		gate := New(bio, &stubVerifier{}, true)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)

		bio.available = false

		require.ErrorIs(t, gate.ConfirmBiometric(ctx, "confirm transfer"), ErrBiometricUnavailable)
		require.Equal(t, StateIdle, gate.State())
	})

	t.Run("WrongState", func(t *testing.T) {
		gate := New(&stubBiometrics{available: true}, &stubVerifier{}, true)
		require.ErrorIs(t, gate.ConfirmBiometric(ctx, "confirm transfer"), ErrInvalidTransition)
	})
}

func TestUsePassword(t *testing.T) {
	ctx := context.Background()

	gate := New(&stubBiometrics{available: true}, &stubVerifier{}, true)

	_, err := gate.Begin(ctx)
	require.NoError(t, err)
	require.Equal(t, StateBiometricPrompt, gate.State())

	// The user may explicitly switch to the password prompt.
	require.NoError(t, gate.UsePassword())
	require.Equal(t, StatePasswordPrompt, gate.State())

	require.NoError(t, gate.SubmitPassword(ctx, "secret"))
	require.Equal(t, StateAuthorized, gate.State())

	require.ErrorIs(t, gate.UsePassword(), ErrInvalidTransition)
}

func TestSubmitPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		verifier := &stubVerifier{}
		gate := New(&stubBiometrics{}, verifier, false)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)

		require.NoError(t, gate.SubmitPassword(ctx, "secret"))
		require.Equal(t, StateAuthorized, gate.State())
		require.Equal(t, 1, verifier.calls)
	})

	t.Run("FailureDenies", func(t *testing.T) {
		verifier := &stubVerifier{err: errors.New("invalid email or password")}
		gate := New(&stubBiometrics{}, verifier, false)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)

		require.Error(t, gate.SubmitPassword(ctx, "wrong"))
		require.Equal(t, StateDenied, gate.State())
	})

	t.Run("WrongState", func(t *testing.T) {
		gate := New(&stubBiometrics{}, &stubVerifier{}, false)
		require.ErrorIs(t, gate.SubmitPassword(ctx, "secret"), ErrInvalidTransition)
	})
}

func TestFire(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresAuthorization", func(t *testing.T) {
		gate := New(&stubBiometrics{}, &stubVerifier{}, false)

		err := gate.Fire(ctx, func(context.Context) error { return nil })
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("FiresExactlyOnce", func(t *testing.T) {
		gate := New(&stubBiometrics{}, &stubVerifier{}, false)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, gate.SubmitPassword(ctx, "secret"))

		fired := 0
		action := func(context.Context) error {
			fired++
			return nil
		}

		require.NoError(t, gate.Fire(ctx, action))
		require.ErrorIs(t, gate.Fire(ctx, action), ErrAlreadyFired)
		require.Equal(t, 1, fired)
	})

	t.Run("ActionErrorSurfaces", func(t *testing.T) {
		gate := New(&stubBiometrics{}, &stubVerifier{}, false)

		_, err := gate.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, gate.SubmitPassword(ctx, "secret"))

		wantErr := errors.New("network error")
		require.ErrorIs(t, gate.Fire(ctx, func(context.Context) error { return wantErr }), wantErr)

		// A failed action still counts as fired; retries need a new gate.
		require.ErrorIs(t, gate.Fire(ctx, func(context.Context) error { return nil }), ErrAlreadyFired)
	})
}
