package report

import "gopkg.in/yaml.v3"

func (r *Reporter) writeYAML() {
	enc := yaml.NewEncoder(r.sink)
	defer enc.Close()
	_ = enc.Encode(r.buildDocument())
}
