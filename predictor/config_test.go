package predictor_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("Config", func() {
	Describe("Defaults", func() {
		It("should use gshare with 15 history bits", func() {
			config := predictor.DefaultConfig()
			Expect(config.Kind).To(Equal(predictor.KindGshare))
			Expect(config.GlobalHistoryBits).To(Equal(15))
		})
	})

	Describe("ParseKind", func() {
		It("should parse every variant name", func() {
			names := map[string]predictor.Kind{
				"static":     predictor.KindStatic,
				"gshare":     predictor.KindGshare,
				"tournament": predictor.KindTournament,
				"custom":     predictor.KindCustom,
			}
			for name, want := range names {
				kind, err := predictor.ParseKind(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(kind).To(Equal(want))
				Expect(kind.String()).To(Equal(name))
			}
		})

		It("should reject unknown names", func() {
			_, err := predictor.ParseKind("perceptron")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("JSON encoding", func() {
		It("should round-trip a config through JSON", func() {
			config := predictor.Config{
				Kind:              predictor.KindTournament,
				GlobalHistoryBits: 13,
			}

			data, err := json.Marshal(config)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"tournament"`))

			var decoded predictor.Config
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(config))
		})

		It("should reject an unknown kind name", func() {
			var config predictor.Config
			err := json.Unmarshal([]byte(`{"kind":"neural"}`), &config)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadConfig", func() {
		It("should load a config file and keep defaults for absent fields", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.json")
			err := os.WriteFile(path, []byte(`{"kind":"custom"}`), 0o644)
			Expect(err).NotTo(HaveOccurred())

			config, err := predictor.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(config.Kind).To(Equal(predictor.KindCustom))
			Expect(config.GlobalHistoryBits).To(Equal(15))
		})

		It("should reject an invalid history width", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.json")
			err := os.WriteFile(path,
				[]byte(`{"kind":"gshare","global_history_bits":99}`), 0o644)
			Expect(err).NotTo(HaveOccurred())

			_, err = predictor.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})

		It("should report a missing file", func() {
			_, err := predictor.LoadConfig("/nonexistent/config.json")
			Expect(err).To(HaveOccurred())
		})
	})
})
