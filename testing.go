package mailpreview

import "fmt"

// CheckResult is the outcome of evaluating one preview in Check.
type CheckResult struct {
	Path        string
	Title       string
	Attachments int
	Err         error
}

// OK reports whether the preview evaluated cleanly.
func (r CheckResult) OK() bool {
	return r.Err == nil
}

// Check fully evaluates every preview in reg: metadata, artifact and every
// attachment. Use it in a host application's tests to catch broken
// fixtures:
//
//	for _, r := range mailpreview.Check(emails.Previews) {
//	    if !r.OK() {
//	        t.Errorf("%s: %v", r.Path, r.Err)
//	    }
//	}
//
// Results are in declaration order.
func Check(reg *Registry) []CheckResult {
	results := make([]CheckResult, 0, len(reg.previews))
	for _, p := range reg.previews {
		results = append(results, checkPreview(p))
	}
	return results
}

func checkPreview(p Preview) CheckResult {
	res := CheckResult{Path: p.Path}

	p, err := Resolve(p)
	if err != nil {
		res.Err = err
		return res
	}
	res.Title = p.Metadata.Title

	attachments, _ := attachmentsOf(p.Artifact)
	for i := range attachments {
		if _, err := ReadAttachmentAt(p, i); err != nil {
			res.Err = err
			return res
		}
		res.Attachments++
	}
	return res
}

// CheckErr returns the first failure reported by Check, or nil.
func CheckErr(reg *Registry) error {
	for _, r := range Check(reg) {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Evaluate looks up path in reg and resolves its metadata and artifact.
// Unknown paths return ErrNotFound.
//
//	p, err := mailpreview.Evaluate(emails.Previews, "auth.reset_password")
//	email := p.Artifact.(mailpreview.Email)
func Evaluate(reg *Registry, path string) (Preview, error) {
	p, ok := reg.Lookup(path)
	if !ok {
		return Preview{}, fmt.Errorf("%w: preview %q", ErrNotFound, path)
	}
	return Resolve(p)
}
