package cleanup

import "log"

type Job struct {
	Name string
	F    func() error
}

var jobs []*Job

func Register(j *Job) {
	jobs = append(jobs, j)
}

// CleanUp runs jobs in reverse registration order, so resources opened
// first are released last.
func CleanUp() {
	for i := len(jobs) - 1; i >= 0; i-- {
		j := jobs[i]
		log.Printf("cleanup: running %s", j.Name)
		if err := j.F(); err != nil {
			log.Printf("cleanup: %s failed: %v", j.Name, err)
			continue
		}
		log.Printf("cleanup: %s done", j.Name)
	}
}
