package pyenv

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvisioner(t *testing.T) *Provisioner {
	t.Helper()

	p := New(t.TempDir())
	p.LookPath = func(name string) (string, error) {
		return "", exec.ErrNotFound
	}
	p.RunCommand = func(cmd *exec.Cmd) error {
		t.Fatalf("unexpected command: %v", cmd.Args)
		return nil
	}
	p.CommandOutput = func(cmd *exec.Cmd) ([]byte, error) {
		t.Fatalf("unexpected command: %v", cmd.Args)
		return nil, nil
	}

	return p
}

func TestFindInterpreterMissing(t *testing.T) {
	p := newTestProvisioner(t)

	_, err := p.FindInterpreter()
	require.Error(t, err)

	var missingErr *MissingInterpreterError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, DefaultInterpreterCandidates, missingErr.Candidates)
	assert.Contains(t, err.Error(), "3.9 or newer")
}

func TestFindInterpreterSkipsTooOld(t *testing.T) {
	p := newTestProvisioner(t)

	versions := map[string]string{
		"/usr/bin/python3": "Python 3.8.10",
		"/usr/bin/python":  "Python 3.11.2",
	}

	p.LookPath = func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}
	p.CommandOutput = func(cmd *exec.Cmd) ([]byte, error) {
		return []byte(versions[cmd.Path]), nil
	}

	interp, err := p.FindInterpreter()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python", interp.Path)
	assert.Equal(t, Version{3, 11}, interp.Version)
}

func TestFindInterpreterHonorsOverride(t *testing.T) {
	p := newTestProvisioner(t)
	p.PythonOverride = "/opt/python/bin/python3.12"

	var probed []string
	p.LookPath = func(name string) (string, error) {
		probed = append(probed, name)
		return name, nil
	}
	p.CommandOutput = func(cmd *exec.Cmd) ([]byte, error) {
		return []byte("Python 3.12.1"), nil
	}

	interp, err := p.FindInterpreter()
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/python/bin/python3.12"}, probed)
	assert.Equal(t, Version{3, 12}, interp.Version)
}

func TestFindInterpreterOverrideTooOldFails(t *testing.T) {
	p := newTestProvisioner(t)
	p.PythonOverride = "/usr/bin/python2"
	p.LookPath = func(name string) (string, error) { return name, nil }
	p.CommandOutput = func(cmd *exec.Cmd) ([]byte, error) {
		return []byte("Python 2.7.18"), nil
	}

	_, err := p.FindInterpreter()

	var missingErr *MissingInterpreterError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"/usr/bin/python2"}, missingErr.Candidates)
}

func TestCreateEnvInvokesVenvModule(t *testing.T) {
	p := newTestProvisioner(t)

	var gotArgs []string
	p.RunCommand = func(cmd *exec.Cmd) error {
		gotArgs = cmd.Args
		return nil
	}

	err := p.CreateEnv(&Interpreter{Path: "/usr/bin/python3", Version: Version{3, 11}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/python3", "-m", "venv", p.VenvDir}, gotArgs)
}

func TestCreateEnvReusesExisting(t *testing.T) {
	p := newTestProvisioner(t)

	require.NoError(t, os.MkdirAll(p.VenvDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.VenvDir, "pyvenv.cfg"), []byte("home = /usr\n"), 0644))

	// RunCommand would fail the test if invoked; reuse must skip creation.
	err := p.CreateEnv(&Interpreter{Path: "/usr/bin/python3"})
	require.NoError(t, err)
}

func TestCreateEnvRecreateRemovesExisting(t *testing.T) {
	p := newTestProvisioner(t)
	p.Recreate = true

	require.NoError(t, os.MkdirAll(p.VenvDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.VenvDir, "pyvenv.cfg"), []byte("home = /usr\n"), 0644))

	created := false
	p.RunCommand = func(cmd *exec.Cmd) error {
		created = true
		// The old environment must be gone before the new one is created.
		assert.NoFileExists(t, filepath.Join(p.VenvDir, "pyvenv.cfg"))
		return nil
	}

	err := p.CreateEnv(&Interpreter{Path: "/usr/bin/python3"})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateEnvFailureIsTyped(t *testing.T) {
	p := newTestProvisioner(t)

	p.RunCommand = func(cmd *exec.Cmd) error {
		return errors.New("exit status 1")
	}

	err := p.CreateEnv(&Interpreter{Path: "/usr/bin/python3"})

	var createErr *EnvCreateError
	require.ErrorAs(t, err, &createErr)
	assert.Equal(t, p.VenvDir, createErr.Path)
}

func TestInstallRequirementsArgs(t *testing.T) {
	p := newTestProvisioner(t)

	var gotArgs []string
	p.RunCommand = func(cmd *exec.Cmd) error {
		gotArgs = cmd.Args
		return nil
	}

	require.NoError(t, p.InstallRequirements())
	assert.Equal(t, []string{p.Venv().Pip(), "install", "-r", p.RequirementsPath}, gotArgs)
}

func TestInstallRequirementsOfflineArgs(t *testing.T) {
	p := newTestProvisioner(t)
	p.Offline = true
	p.FindLinksDir = "/tmp/archives"

	var gotArgs []string
	p.RunCommand = func(cmd *exec.Cmd) error {
		gotArgs = cmd.Args
		return nil
	}

	require.NoError(t, p.InstallRequirements())
	assert.Contains(t, gotArgs, "--no-index")
	assert.Contains(t, gotArgs, "--find-links")
	assert.Contains(t, gotArgs, "/tmp/archives")
}

func TestInstallRequirementsFailureIsTyped(t *testing.T) {
	p := newTestProvisioner(t)

	p.RunCommand = func(cmd *exec.Cmd) error {
		return errors.New("exit status 1")
	}

	err := p.InstallRequirements()

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, p.RequirementsPath, installErr.RequirementsPath)
}

func provisionStub(t *testing.T, upgradeErr, installErr error) (*Provisioner, *[]string) {
	t.Helper()

	p := newTestProvisioner(t)

	p.LookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	p.CommandOutput = func(cmd *exec.Cmd) ([]byte, error) { return []byte("Python 3.11.0"), nil }

	var commands []string
	p.RunCommand = func(cmd *exec.Cmd) error {
		switch {
		case len(cmd.Args) > 1 && cmd.Args[1] == "-m":
			commands = append(commands, "venv")
		case len(cmd.Args) > 2 && cmd.Args[2] == "--upgrade":
			commands = append(commands, "upgrade")
			return upgradeErr
		default:
			commands = append(commands, "install")
			return installErr
		}
		return nil
	}

	return p, &commands
}

func TestProvisionRunsAllSteps(t *testing.T) {
	p, commands := provisionStub(t, nil, nil)
	defer p.Close()

	require.NoError(t, p.Provision())
	assert.Equal(t, []string{"venv", "upgrade", "install"}, *commands)
	require.NotNil(t, p.Interpreter())
	assert.Equal(t, "/usr/bin/python3", p.Interpreter().Path)
}

func TestProvisionToleratesUpgradeFailure(t *testing.T) {
	p, commands := provisionStub(t, errors.New("upgrade failed"), nil)
	defer p.Close()

	require.NoError(t, p.Provision())
	assert.Equal(t, []string{"venv", "upgrade", "install"}, *commands)
}

func TestProvisionStrictUpgradeFailureIsFatal(t *testing.T) {
	p, commands := provisionStub(t, errors.New("upgrade failed"), nil)
	defer p.Close()
	p.StrictPipUpgrade = true

	require.Error(t, p.Provision())
	assert.Equal(t, []string{"venv", "upgrade"}, *commands)
}

func TestProvisionInstallFailureIsFatal(t *testing.T) {
	p, _ := provisionStub(t, nil, fmt.Errorf("exit status 1"))
	defer p.Close()

	err := p.Provision()

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
}

func TestProvisionMissingInterpreterHasNoSideEffects(t *testing.T) {
	p := newTestProvisioner(t)
	defer p.Close()

	err := p.Provision()

	var missingErr *MissingInterpreterError
	require.ErrorAs(t, err, &missingErr)

	// Nothing may have been written into the project directory.
	entries, readErr := os.ReadDir(p.ProjectDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestConcurrentProvisionIsRejected(t *testing.T) {
	projectDir := t.TempDir()

	first := New(projectDir)
	require.NoError(t, first.acquireLock())
	defer first.Close()

	second := New(projectDir)
	err := second.acquireLock()

	var busyErr *LockBusyError
	require.ErrorAs(t, err, &busyErr)
}
