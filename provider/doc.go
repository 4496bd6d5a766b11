// Package provider holds the generic building blocks shared by llmstream
// backends: the base Provider interface, the pull-based Iterator used to hand
// results to consumers one value at a time, a factory Registry that lets a
// host pick a backend by name at runtime, and a Manager that keeps the
// initialized backends and selects among them.
//
// # Usage
//
//	reg := provider.NewRegistry[llm.Provider]()
//	clarifai.Register(reg)
//	m := provider.NewManager(reg, nil)
//	if err := m.Initialize("clarifai", map[string]any{"pat": token, "model_id": id}); err != nil {
//		return err
//	}
//	p, err := m.GetByName("clarifai")
package provider
