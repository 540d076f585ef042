package assemble

import "text/template"

// The script layout is fixed; only the data varies. Templates are compiled
// in rather than loaded from disk because the assembled script must be
// byte-deterministic for a given command set.

var prologueTmpl = template.Must(template.New("prologue").Parse(`#!{{.Shell}}
# Generated by docverify (run {{.RunID}}). Do not edit.
set -euo pipefail
export DEBIAN_FRONTEND=noninteractive

echo "==> Preparing environment"
apt-get update
apt-get install -y {{.Prereqs}}
`))

var announceTmpl = template.Must(template.New("announce").Parse(`
echo "==> Step {{.Number}}: {{.Summary}}"
`))

var keyVerifyTmpl = template.Must(template.New("keyverify").Parse(`gpg --batch --import {{.KeyFile}}
actual_fpr="$(gpg --batch --with-colons --fingerprint | awk -F: '/^fpr:/ {print $10; exit}')"
expected_fpr="{{.Expected}}"
if [ "$actual_fpr" != "$expected_fpr" ]; then
    echo "key fingerprint mismatch: expected $expected_fpr, got $actual_fpr" >&2
    exit 1
fi
echo "key fingerprint verified: $actual_fpr"
`))

var epilogueTmpl = template.Must(template.New("epilogue").Parse(`
echo "==> Post-install verification"
if command -v {{.Target}} >/dev/null 2>&1; then
    {{.Target}} --version || true
else
    echo "{{.Target}} not found on PATH (informational)"
fi
dpkg -l | grep {{.Package}} || true
echo "{{.SuccessMarker}}"
`))
