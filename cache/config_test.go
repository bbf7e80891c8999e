package cache_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Config", func() {
	Describe("Validate", func() {
		It("should accept a sensible geometry", func() {
			config := cache.Config{
				SetIndexBits:    4,
				BlockOffsetBits: 6,
				LinesPerSet:     2,
			}
			Expect(config.Validate()).To(Succeed())
		})

		It("should accept a fully associative geometry", func() {
			config := cache.Config{
				SetIndexBits:    0,
				BlockOffsetBits: 0,
				LinesPerSet:     8,
			}
			Expect(config.Validate()).To(Succeed())
		})

		It("should reject negative set index bits", func() {
			config := cache.Config{
				SetIndexBits:    -1,
				BlockOffsetBits: 6,
				LinesPerSet:     2,
			}
			Expect(errors.Is(config.Validate(), cache.ErrGeometry)).To(BeTrue())
		})

		It("should reject negative block offset bits", func() {
			config := cache.Config{
				SetIndexBits:    4,
				BlockOffsetBits: -1,
				LinesPerSet:     2,
			}
			Expect(errors.Is(config.Validate(), cache.ErrGeometry)).To(BeTrue())
		})

		It("should reject zero lines per set", func() {
			config := cache.Config{
				SetIndexBits:    4,
				BlockOffsetBits: 6,
				LinesPerSet:     0,
			}
			Expect(errors.Is(config.Validate(), cache.ErrGeometry)).To(BeTrue())
		})

		It("should reject index and offset bits beyond the address width", func() {
			config := cache.Config{
				SetIndexBits:    33,
				BlockOffsetBits: 32,
				LinesPerSet:     1,
			}
			Expect(errors.Is(config.Validate(), cache.ErrGeometry)).To(BeTrue())
		})

		It("should reject a set count too large for the host int", func() {
			for _, s := range []int{63, 64} {
				config := cache.Config{
					SetIndexBits:    s,
					BlockOffsetBits: 0,
					LinesPerSet:     1,
				}
				Expect(errors.Is(config.Validate(), cache.ErrGeometry)).To(BeTrue())
			}
		})

		It("should accept index and offset bits at exactly the address width", func() {
			config := cache.Config{
				SetIndexBits:    32,
				BlockOffsetBits: 32,
				LinesPerSet:     1,
			}
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("NumSets", func() {
		It("should derive the set count from the index bits", func() {
			Expect(cache.Config{SetIndexBits: 0}.NumSets()).To(Equal(1))
			Expect(cache.Config{SetIndexBits: 1}.NumSets()).To(Equal(2))
			Expect(cache.Config{SetIndexBits: 10}.NumSets()).To(Equal(1024))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "cachesim-config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := cache.Config{
				SetIndexBits:    5,
				BlockOffsetBits: 4,
				LinesPerSet:     8,
			}

			path := filepath.Join(tempDir, "geometry.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := cache.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should return error for non-existent file", func() {
			_, err := cache.LoadConfig("/nonexistent/path/geometry.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = cache.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})

		It("should keep defaults for absent fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			err := os.WriteFile(path, []byte(`{"lines_per_set": 4}`), 0644)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := cache.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.LinesPerSet).To(Equal(4))
			Expect(loaded.SetIndexBits).To(Equal(cache.DefaultConfig().SetIndexBits))
		})
	})
})
