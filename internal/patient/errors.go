package patient

import "github.com/linnemanlabs/aftercare/internal/care"

func notFound(id string) error {
	return care.NotFoundf("patient %s", id)
}
